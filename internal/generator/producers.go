package generator

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chinazagideon/mock-generator/internal/record"
)

// ── Catalogue ──────────────────────────────────────────────

const (
	KindString             Kind = "string"
	KindNumber             Kind = "number"
	KindBoolean            Kind = "boolean"
	KindDate               Kind = "date"
	KindEmail              Kind = "email"
	KindPhone              Kind = "phone"
	KindName               Kind = "name"
	KindFirstName          Kind = "firstName"
	KindLastName           Kind = "lastName"
	KindAddress            Kind = "address"
	KindCity               Kind = "city"
	KindCountry            Kind = "country"
	KindZipCode            Kind = "zipCode"
	KindTerminalID         Kind = "terminalId"
	KindMerchantID         Kind = "merchantId"
	KindCardPAN            Kind = "card_pan"
	KindRRN                Kind = "rrn"
	KindTransactionID      Kind = "transactionId"
	KindProduct            Kind = "product"
	KindAmount             Kind = "amount"
	KindTotalValue         Kind = "totalValue"
	KindSettledValue       Kind = "settledValue"
	KindTotalVolume        Kind = "totalVolume"
	KindCharge             Kind = "charge"
	KindStatus             Kind = "status"
	KindSettlementStatus   Kind = "settlementStatus"
	KindType               Kind = "type"
	KindRegistrationDate   Kind = "registrationDate"
	KindCreatedAt          Kind = "createdAt"
	KindUpdatedAt          Kind = "updatedAt"
	KindID                 Kind = "id"
	KindUUID               Kind = "uuid"
	KindURL                Kind = "url"
	KindImageURL           Kind = "imageUrl"
	KindAvatar             Kind = "avatar"
	KindDescription        Kind = "description"
	KindTitle              Kind = "title"
	KindText               Kind = "text"
	KindReason             Kind = "reason"
	KindContext            Kind = "context"
	KindCompanyName        Kind = "companyName"
	KindJobTitle           Kind = "jobTitle"
	KindDepartment         Kind = "department"
	KindProductName        Kind = "productName"
	KindProductDescription Kind = "productDescription"
	KindPrice              Kind = "price"
	KindEnum               Kind = "enum"
	KindNumberRange        Kind = "numberRange"
	KindFloatRange         Kind = "floatRange"
	KindDateRange          Kind = "dateRange"
	KindStringLength       Kind = "stringLength"
	KindStatusName         Kind = "statusName"
	KindStatusDescription  Kind = "statusDescription"
	KindStatusContext      Kind = "statusContext"
	KindPriority           Kind = "priority"
	KindCategory           Kind = "category"
	KindSeverity           Kind = "severity"
	KindResolution         Kind = "resolution"
	KindAssignedTo         Kind = "assignedTo"
	KindCreatedBy          Kind = "createdBy"
	KindUpdatedBy          Kind = "updatedBy"
	KindNotes              Kind = "notes"
	KindTags               Kind = "tags"
	KindMetadata           Kind = "metadata"
)

var (
	products           = []string{"commissionTransfer", "commissionSettlement", "commissionDispute"}
	statuses           = []string{"pending", "completed", "failed", "processing"}
	settlementStatuses = []string{"settled", "pending", "failed", "processing"}
	transactionTypes   = []string{"credit", "debit", "transfer", "withdrawal"}
	contexts           = []string{"warning", "error", "info"}
	statusNames        = []string{"pending", "completed", "failed", "processing", "cancelled"}
	statusContexts     = []string{"warning", "error", "info", "success"}
	priorities         = []string{"low", "medium", "high", "urgent"}
	categories         = []string{"technical", "billing", "support", "general"}
	severities         = []string{"low", "medium", "high", "critical"}
	resolutions        = []string{"resolved", "unresolved", "in_progress", "escalated"}
	tagPool            = []string{"urgent", "bug", "feature", "documentation", "testing"}
	sources            = []string{"web", "mobile", "api", "system"}
	environments       = []string{"development", "staging", "production"}
	departments        = []string{
		"Books", "Movies", "Music", "Games", "Electronics", "Computers", "Home", "Garden",
		"Tools", "Grocery", "Health", "Beauty", "Toys", "Kids", "Baby", "Clothing",
		"Shoes", "Jewelery", "Sports", "Outdoors", "Automotive", "Industrial",
	}
)

var catalogue = []entry{
	// basic
	fixed(KindString, "10 alphanumeric characters", func(r *Rand) any { return r.Alphanumeric(10) }),
	fixed(KindNumber, "integer in [1, 10000]", func(r *Rand) any { return r.IntRange(1, 10000) }),
	fixed(KindBoolean, "true or false", func(r *Rand) any { return r.Bool() }),
	fixed(KindDate, "ISO timestamp within the last day", recent),

	// people and places
	fixed(KindEmail, "email address", func(r *Rand) any { return r.faker.Email() }),
	fixed(KindPhone, "formatted phone number", func(r *Rand) any { return r.faker.PhoneFormatted() }),
	fixed(KindName, "full name", fullName),
	fixed(KindFirstName, "first name", func(r *Rand) any { return r.faker.FirstName() }),
	fixed(KindLastName, "last name", func(r *Rand) any { return r.faker.LastName() }),
	fixed(KindAddress, "street address", func(r *Rand) any { return r.faker.Street() }),
	fixed(KindCity, "city", func(r *Rand) any { return r.faker.City() }),
	fixed(KindCountry, "country", func(r *Rand) any { return r.faker.Country() }),
	fixed(KindZipCode, "postal code", func(r *Rand) any { return r.faker.Zip() }),

	// payments
	fixed(KindTerminalID, "T + 8 uppercase alphanumerics", prefixed("T", 8)),
	fixed(KindMerchantID, "M + 8 uppercase alphanumerics", prefixed("M", 8)),
	fixed(KindCardPAN, "credit card number", func(r *Rand) any { return r.faker.CreditCardNumber(nil) }),
	fixed(KindRRN, "12 uppercase alphanumerics", prefixed("", 12)),
	fixed(KindTransactionID, "TXN + 10 uppercase alphanumerics", prefixed("TXN", 10)),
	fixed(KindProduct, "commission product", choice(products)),
	fixed(KindAmount, "amount in [100, 100000], 2 decimals", money(100, 100000)),
	fixed(KindTotalValue, "value in [1000, 1000000], 2 decimals", money(1000, 1000000)),
	fixed(KindSettledValue, "value in [500, 500000], 2 decimals", money(500, 500000)),
	fixed(KindTotalVolume, "integer in [1, 1000]", func(r *Rand) any { return r.IntRange(1, 1000) }),
	fixed(KindCharge, "charge in [10, 5000], 2 decimals", money(10, 5000)),
	fixed(KindPrice, "price in [10, 1000], 2 decimals", money(10, 1000)),

	// statuses
	fixed(KindStatus, "transaction status", choice(statuses)),
	fixed(KindSettlementStatus, "settlement status", choice(settlementStatuses)),
	fixed(KindType, "transaction type", choice(transactionTypes)),
	fixed(KindContext, "message context", choice(contexts)),
	fixed(KindStatusName, "workflow status", choice(statusNames)),
	fixed(KindStatusDescription, "lorem sentence", sentence),
	fixed(KindStatusContext, "status context", choice(statusContexts)),
	fixed(KindPriority, "ticket priority", choice(priorities)),
	fixed(KindCategory, "ticket category", choice(categories)),
	fixed(KindSeverity, "incident severity", choice(severities)),
	fixed(KindResolution, "ticket resolution", choice(resolutions)),

	// dates
	fixed(KindRegistrationDate, "ISO timestamp within the last year", past),
	fixed(KindCreatedAt, "ISO timestamp within the last year", past),
	fixed(KindUpdatedAt, "ISO timestamp within the last day", recent),

	// identifiers
	fixed(KindID, "integer in [1, 999999]; sequential when the field is also named id", func(r *Rand) any { return r.IntRange(1, 999999) }),
	fixed(KindUUID, "random (v4) UUID", randomUUID),

	// web
	fixed(KindURL, "URL", func(r *Rand) any { return r.faker.URL() }),
	fixed(KindImageURL, "placeholder image URL", func(r *Rand) any {
		return fmt.Sprintf("https://picsum.photos/seed/%s/640/480", r.Alphanumeric(8))
	}),
	fixed(KindAvatar, "avatar image URL", func(r *Rand) any {
		return fmt.Sprintf("https://avatars.githubusercontent.com/u/%d", r.IntRange(1, 100000000))
	}),

	// text
	fixed(KindDescription, "lorem sentence", sentence),
	fixed(KindTitle, "three lorem words", words(3)),
	fixed(KindText, "lorem paragraph", paragraph),
	fixed(KindReason, "lorem sentence", sentence),
	fixed(KindNotes, "lorem paragraph", paragraph),

	// organisations and products
	fixed(KindCompanyName, "company name", func(r *Rand) any { return r.faker.Company() }),
	fixed(KindJobTitle, "job title", func(r *Rand) any { return r.faker.JobTitle() }),
	fixed(KindDepartment, "commerce department", choice(departments)),
	fixed(KindProductName, "product name", func(r *Rand) any { return r.faker.ProductName() }),
	fixed(KindProductDescription, "product description", func(r *Rand) any { return r.faker.ProductDescription() }),
	fixed(KindAssignedTo, "full name", fullName),
	fixed(KindCreatedBy, "full name", fullName),
	fixed(KindUpdatedBy, "full name", fullName),

	// composites
	fixed(KindTags, "1 to 3 distinct tags", tags),
	fixed(KindMetadata, "source/version/environment/timestamp sub-record", metadata),

	// parameterized
	param(KindEnum, "one of options", enum),
	param(KindNumberRange, "integer in [min, max]", numberRange),
	param(KindFloatRange, "number in [min, max] quantised to precision (default 0.01)", floatRange),
	param(KindDateRange, "ISO timestamp between startDate and endDate", dateRange),
	param(KindStringLength, "alphanumeric string of length", stringLength),
}

func choice(options []string) func(r *Rand) any {
	return func(r *Rand) any { return Pick(r, options) }
}

func prefixed(prefix string, n int) func(r *Rand) any {
	return func(r *Rand) any { return prefix + strings.ToUpper(r.Alphanumeric(n)) }
}

func money(lo, hi float64) func(r *Rand) any {
	return func(r *Rand) any {
		v, _ := quantized(r, lo, hi, 0.01)
		return v
	}
}

func fullName(r *Rand) any { return r.faker.Name() }

func recent(r *Rand) any {
	return isoTime(r.Between(r.now.Add(-24*time.Hour), r.now))
}

func past(r *Rand) any {
	return isoTime(r.Between(r.now.AddDate(-1, 0, 0), r.now))
}

func randomUUID(r *Rand) any {
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		return uuid.Nil.String()
	}
	return id.String()
}

func sentence(r *Rand) any {
	return r.faker.LoremIpsumSentence(r.IntRange(3, 10))
}

func words(n int) func(r *Rand) any {
	return func(r *Rand) any {
		w := make([]string, n)
		for i := range w {
			w[i] = r.faker.LoremIpsumWord()
		}
		return strings.Join(w, " ")
	}
}

func paragraph(r *Rand) any {
	return r.faker.LoremIpsumParagraph(1, r.IntRange(3, 6), r.IntRange(5, 12), " ")
}

func tags(r *Rand) any {
	n := r.IntRange(1, 3)
	perm := r.rng.Perm(len(tagPool))
	out := make([]any, n)
	for i := 0; i < n; i++ {
		out[i] = tagPool[perm[i]]
	}
	return out
}

func metadata(r *Rand) any {
	return record.New(
		"source", Pick(r, sources),
		"version", r.faker.AppVersion(),
		"environment", Pick(r, environments),
		"timestamp", recent(r),
	)
}
