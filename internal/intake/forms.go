package intake

import (
	"estate_leads_backend/internal/config"
	"estate_leads_backend/internal/status"
)

// Built-in form names.
const (
	FormSellerListing    = "seller-listing"
	FormCareers          = "careers-application"
	FormValuation        = "valuation-request"
	FormCustomerQuestion = "customer-question"
	FormDownloadInterest = "download-interest"
)

var (
	imageTypes    = []string{"image/"}
	documentTypes = []string{"application/pdf", "image/"}
	resumeTypes   = []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
)

// BuiltinForms returns the customer forms with caps taken from cfg.
func BuiltinForms(cfg *config.Config) []*Form {
	return []*Form{
		sellerListingForm(cfg),
		careersForm(cfg),
		valuationForm(),
		customerQuestionForm(),
		downloadInterestForm(),
	}
}

// NewBuiltinRegistry registers BuiltinForms.
func NewBuiltinRegistry(cfg *config.Config) (*Registry, error) {
	return NewRegistry(BuiltinForms(cfg)...)
}

func sellerListingForm(cfg *config.Config) *Form {
	return &Form{
		Name:            FormSellerListing,
		ReferencePrefix: "LST",
		Title:           "List your property",
		Steps: []Step{
			{
				Title: "Basics",
				Fields: []Field{
					{Name: "title", Label: "Listing title", Kind: KindText, Required: true},
					{Name: "listing_status", Label: "Listing type", Kind: KindSelect, Required: true, Options: status.ListingIntent.Values()},
					{Name: "category", Label: "Category", Kind: KindSelect, Required: true, Options: []string{"residential", "commercial"}},
					{Name: "property_type", Label: "Property type", Kind: KindSelect, Required: true,
						Options: []string{"apartment", "villa", "townhouse", "penthouse", "office", "retail", "land"}},
					{Name: "price", Label: "Price", Kind: KindNumber, Required: true},
					{Name: "description", Label: "Description", Kind: KindTextarea},
				},
			},
			{
				Title: "Location",
				Fields: []Field{
					{Name: "address", Label: "Address", Kind: KindText},
					{Name: "area", Label: "Area / community", Kind: KindText, Required: true},
					{Name: "city", Label: "City", Kind: KindText},
				},
			},
			{
				Title: "Details",
				Fields: []Field{
					{Name: "beds", Label: "Bedrooms", Kind: KindNumber},
					{Name: "baths", Label: "Bathrooms", Kind: KindNumber},
					{Name: "sqft", Label: "Size (sqft)", Kind: KindNumber},
					{Name: "property_status", Label: "Completion status", Kind: KindSelect, Options: status.PropertyStatus.Values()},
					{Name: "amenities", Label: "Amenities", Kind: KindTextarea},
					{Name: "contact_name", Label: "Your name", Kind: KindText, Required: true},
					{Name: "contact_email", Label: "Email", Kind: KindEmail, Required: true},
					{Name: "contact_phone", Label: "Phone", Kind: KindPhone, Required: true},
				},
			},
			{
				Title:       "Media",
				Description: "Photos and documents, up to 1 MB each.",
				Fields: []Field{
					{Name: "photos", Label: "Photos", Kind: KindFile, Multiple: true, MaxBytes: cfg.SellerFileMaxBytes, Accept: imageTypes},
					{Name: "documents", Label: "Documents", Kind: KindFile, Multiple: true, MaxBytes: cfg.SellerFileMaxBytes, Accept: documentTypes},
				},
			},
		},
		Defaults: map[string]any{
			"city":            cfg.DefaultAddress,
			"listing_status":  "sale",
			"category":        "residential",
			"property_status": "ready",
		},
	}
}

func careersForm(cfg *config.Config) *Form {
	return &Form{
		Name:            FormCareers,
		ReferencePrefix: "APP",
		Title:           "Apply for a position",
		Steps: []Step{
			{
				Title: "Position",
				Fields: []Field{
					{Name: "job_posting_id", Label: "Position", Kind: KindText, Required: true},
				},
			},
			{
				Title: "About you",
				Fields: []Field{
					{Name: "full_name", Label: "Full name", Kind: KindText, Required: true},
					{Name: "email", Label: "Email", Kind: KindEmail, Required: true},
					{Name: "phone", Label: "Phone", Kind: KindPhone, Required: true},
					{Name: "experience", Label: "Years of experience", Kind: KindSelect,
						Options: []string{"0-1", "1-3", "3-5", "5-10", "10+"}},
				},
			},
			{
				Title:       "Documents",
				Description: "Résumé up to 5 MB.",
				Fields: []Field{
					{Name: "resume", Label: "Résumé", Kind: KindFile, Required: true, MaxBytes: cfg.ResumeMaxBytes, Accept: resumeTypes},
					{Name: "cover_letter", Label: "Cover letter", Kind: KindTextarea},
				},
			},
		},
	}
}

func valuationForm() *Form {
	return &Form{
		Name:            FormValuation,
		ReferencePrefix: "VAL",
		Title:           "Request a valuation",
		RequiresAuth:    true,
		Steps: []Step{
			{
				Title: "Property",
				Fields: []Field{
					{Name: "property_type", Label: "Property type", Kind: KindSelect, Required: true,
						Options: []string{"apartment", "villa", "townhouse", "penthouse", "office", "retail", "land"}},
					{Name: "location", Label: "Location", Kind: KindText, Required: true},
					{Name: "size", Label: "Size (sqft)", Kind: KindNumber, Required: true},
				},
			},
			{
				Title: "Details",
				Fields: []Field{
					{Name: "bedrooms", Label: "Bedrooms", Kind: KindNumber},
					{Name: "bathrooms", Label: "Bathrooms", Kind: KindNumber},
					{Name: "year_built", Label: "Year built", Kind: KindNumber},
					{Name: "condition", Label: "Condition", Kind: KindSelect,
						Options: []string{"excellent", "good", "fair", "needs-renovation"}},
				},
			},
			{
				Title: "Notes",
				Fields: []Field{
					{Name: "notes", Label: "Anything else we should know?", Kind: KindTextarea},
				},
			},
		},
	}
}

func customerQuestionForm() *Form {
	return &Form{
		Name:            FormCustomerQuestion,
		ReferencePrefix: "QST",
		Title:           "Ask a question",
		RequiresAuth:    true,
		Steps: []Step{
			{
				Title: "Your question",
				Fields: []Field{
					{Name: "subject", Label: "Subject", Kind: KindText, Required: true},
					{Name: "category", Label: "Category", Kind: KindSelect, Required: true,
						Options: []string{"general", "buying", "selling", "renting", "valuation", "other"}},
					{Name: "message", Label: "Message", Kind: KindTextarea, Required: true},
				},
			},
		},
		Defaults: map[string]any{"category": "general"},
	}
}

func downloadInterestForm() *Form {
	return &Form{
		Name:            FormDownloadInterest,
		ReferencePrefix: "DLI",
		Title:           "Download floor plans and brochures",
		Steps: []Step{
			{
				Title: "Contact",
				Fields: []Field{
					{Name: "property_id", Label: "Property", Kind: KindText, Required: true},
					{Name: "download_type", Label: "Download", Kind: KindSelect, Required: true, Options: []string{"floor_plan", "brochure"}},
					{Name: "full_name", Label: "Full name", Kind: KindText, Required: true},
					{Name: "email", Label: "Email", Kind: KindEmail, Required: true},
					{Name: "phone", Label: "Phone", Kind: KindPhone, Required: true},
					{Name: "preferred_contact", Label: "Preferred contact", Kind: KindSelect, Options: []string{"email", "phone", "whatsapp"}},
				},
			},
			{
				Title: "Financing",
				Fields: []Field{
					{Name: "budget", Label: "Budget", Kind: KindText},
					{Name: "financing_type", Label: "Financing", Kind: KindSelect, Options: []string{"cash", "mortgage", "undecided"}},
					{Name: "pre_approved", Label: "Mortgage pre-approved", Kind: KindCheckbox},
					{Name: "timeline", Label: "Timeline", Kind: KindSelect,
						Options: []string{"immediately", "1-3 months", "3-6 months", "6+ months"}},
				},
			},
		},
		Defaults: map[string]any{"download_type": "brochure", "preferred_contact": "email"},
	}
}
