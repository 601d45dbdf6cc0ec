package property

import (
	"strings"
	"time"

	"estate_leads_backend/internal/config"
	"estate_leads_backend/internal/status"

	"github.com/google/uuid"
)

// Price labels.
const (
	PriceTotal    = "total"
	PricePerMonth = "per_month"
)

// Contact is the seller contact block, present on admin cards only.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Card is the shape the listing screens render and the admin edit form sends back.
type Card struct {
	ID             uuid.UUID    `json:"id"`
	Slug           string       `json:"slug"`
	Title          string       `json:"title" binding:"required,min=3,max=255"`
	Description    string       `json:"description"`
	Price          float64      `json:"price" binding:"gte=0"`
	PriceLabel     string       `json:"price_label"`
	Currency       string       `json:"currency" binding:"omitempty,len=3"`
	Address        string       `json:"address" binding:"max=255"`
	Area           string       `json:"area" binding:"max=150"`
	City           string       `json:"city" binding:"max=100"`
	Location       string       `json:"location"`
	Image          string       `json:"image"`
	Images         []string     `json:"images"`
	Beds           int          `json:"beds" binding:"gte=0"`
	Baths          int          `json:"baths" binding:"gte=0"`
	Sqft           float64      `json:"sqft" binding:"gte=0"`
	Category       string       `json:"category" binding:"omitempty,oneof=residential commercial"`
	PropertyType   string       `json:"property_type"`
	ListingStatus  string       `json:"listing_status" binding:"required"`
	ListingBadge   status.Badge `json:"listing_badge"`
	PropertyStatus string       `json:"property_status"`
	StatusBadge    status.Badge `json:"property_status_badge"`
	Amenities      []string     `json:"amenities"`
	Published      bool         `json:"published"`
	Featured       bool         `json:"featured"`
	AgentID        *uuid.UUID   `json:"agent_id,omitempty"`
	Contact        *Contact     `json:"contact,omitempty"`
	Reference      string       `json:"reference,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (c Card) GetID() uuid.UUID { return c.ID }

// Presenter maps rows to cards, filling missing fields with the configured defaults.
type Presenter struct {
	PlaceholderImage string
	DefaultAddress   string
	DefaultCurrency  string
}

func NewPresenter(cfg *config.Config) Presenter {
	return Presenter{
		PlaceholderImage: cfg.PlaceholderImageURL,
		DefaultAddress:   cfg.DefaultAddress,
		DefaultCurrency:  cfg.DefaultCurrency,
	}
}

// ToCard picks the transform for the row's listing intent. Unknown intents render
// as sale cards with the raw status kept on a neutral badge.
func (p Presenter) ToCard(row *Property) Card {
	if row != nil && row.ListingStatus == "rent" {
		return p.ToRentCard(row)
	}
	return p.ToSaleCard(row)
}

// ToSaleCard renders sale and off-plan listings, priced in total.
func (p Presenter) ToSaleCard(row *Property) Card {
	c := p.base(row)
	c.PriceLabel = PriceTotal
	return c
}

// ToRentCard renders rentals, priced per month.
func (p Presenter) ToRentCard(row *Property) Card {
	c := p.base(row)
	c.PriceLabel = PricePerMonth
	return c
}

// ToAdminCard is ToCard plus the fields only admins see.
func (p Presenter) ToAdminCard(row *Property) Card {
	c := p.ToCard(row)
	if row == nil {
		return c
	}
	c.Contact = &Contact{Name: row.ContactName, Email: row.ContactEmail, Phone: row.ContactPhone}
	if row.Reference != nil {
		c.Reference = *row.Reference
	}
	return c
}

func (p Presenter) base(row *Property) Card {
	if row == nil {
		row = &Property{}
	}
	c := Card{
		ID:             row.ID,
		Slug:           row.Slug,
		Title:          strings.TrimSpace(row.Title),
		Description:    row.Description,
		Price:          row.Price,
		Currency:       row.Currency,
		Address:        strings.TrimSpace(row.Address),
		Area:           strings.TrimSpace(row.Area),
		City:           row.City,
		Beds:           max(row.Beds, 0),
		Baths:          max(row.Baths, 0),
		Sqft:           max(row.Sqft, 0),
		Category:       row.Category,
		PropertyType:   row.PropertyType,
		ListingStatus:  row.ListingStatus,
		ListingBadge:   status.ListingIntent.Badge(row.ListingStatus),
		PropertyStatus: row.PropertyStatus,
		StatusBadge:    status.PropertyStatus.Badge(row.PropertyStatus),
		Amenities:      nonEmpty(row.Amenities),
		Published:      row.Published,
		Featured:       row.Featured,
		AgentID:        row.AgentID,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
	if c.Currency == "" {
		c.Currency = p.DefaultCurrency
	}
	if c.Address == "" {
		c.Address = p.DefaultAddress
	}
	if c.City == "" {
		c.City = p.DefaultAddress
	}

	c.Images = nonEmpty(row.Images)
	if len(c.Images) == 0 {
		c.Images = []string{p.PlaceholderImage}
	}
	c.Image = c.Images[0]

	c.Location = c.Address
	if c.Area != "" && !strings.EqualFold(c.Area, c.Address) {
		c.Location = c.Area + ", " + c.Address
	}
	return c
}

// FromAdminEdit maps an edited card back onto row. Derived fields (label, badges,
// location) are ignored and display defaults (placeholder image, default
// address, city and currency) are never persisted over an empty stored value.
// Identity and ownership fields are left as they are; contact is only replaced
// when the card carries one.
func (p Presenter) FromAdminEdit(card Card, row *Property) {
	row.Title = strings.TrimSpace(card.Title)
	row.Description = card.Description
	row.Price = card.Price
	row.Currency = unlessDefault(strings.ToUpper(card.Currency), row.Currency, strings.ToUpper(p.DefaultCurrency))
	row.Address = unlessDefault(strings.TrimSpace(card.Address), row.Address, p.DefaultAddress)
	row.Area = strings.TrimSpace(card.Area)
	row.City = unlessDefault(strings.TrimSpace(card.City), row.City, p.DefaultAddress)
	row.Beds = card.Beds
	row.Baths = card.Baths
	row.Sqft = card.Sqft
	row.Category = card.Category
	row.PropertyType = card.PropertyType
	row.ListingStatus = card.ListingStatus
	row.PropertyStatus = card.PropertyStatus
	row.Amenities = nonEmpty(card.Amenities)
	row.Published = card.Published
	row.Featured = card.Featured
	row.AgentID = card.AgentID
	if card.Contact != nil {
		row.ContactName = strings.TrimSpace(card.Contact.Name)
		row.ContactEmail = strings.TrimSpace(card.Contact.Email)
		row.ContactPhone = strings.TrimSpace(card.Contact.Phone)
	}

	images := make([]string, 0, len(card.Images))
	for _, img := range nonEmpty(card.Images) {
		if img != p.PlaceholderImage {
			images = append(images, img)
		}
	}
	row.Images = images
}

// unlessDefault returns edited, or "" when edited is only the display fallback
// for a value that was never stored.
func unlessDefault(edited, stored, fallback string) string {
	if strings.TrimSpace(stored) == "" && edited == fallback {
		return ""
	}
	return edited
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
