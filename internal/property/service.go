package property

import (
	"context"
	"fmt"
	"strings"
	"time"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/intake"
	"estate_leads_backend/internal/notification"
	"estate_leads_backend/internal/status"
	"estate_leads_backend/internal/triage"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// searchLimit caps the hits taken from the search index.
const searchLimit = 100

func titleOf(c Card) string    { return c.Title }
func locationOf(c Card) string { return c.Location }

var sorters = map[string]func(a, b Card) int{
	"price":      triage.ByNumber(func(c Card) float64 { return c.Price }),
	"created_at": triage.ByTime(func(c Card) time.Time { return c.CreatedAt }),
	"updated_at": triage.ByTime(func(c Card) time.Time { return c.UpdatedAt }),
	"title":      triage.ByString(titleOf),
	"beds":       triage.ByNumber(func(c Card) int { return c.Beds }),
	"sqft":       triage.ByNumber(func(c Card) float64 { return c.Sqft }),
	"featured":   triage.ByBool(func(c Card) bool { return c.Featured }),
}

var listFilters = map[string]func(Card) string{
	"status":          func(c Card) string { return c.ListingStatus },
	"listing_status":  func(c Card) string { return c.ListingStatus },
	"property_status": func(c Card) string { return c.PropertyStatus },
	"category":        func(c Card) string { return c.Category },
	"property_type":   func(c Card) string { return c.PropertyType },
	"area":            func(c Card) string { return c.Area },
}

// PublicFilterKeys are the query parameters read by the public list.
var PublicFilterKeys = []string{"status", "listing_status", "property_status", "category", "property_type", "area"}

var publicTriage = triage.Config[Card]{
	Search:   []func(Card) string{titleOf, locationOf},
	Filters:  listFilters,
	Sorters:  sorters,
	PageSize: triage.PropertyPageSize,
}

// Service is the customer-facing property API. It is also the submitter of the
// seller-listing intake form.
type Service interface {
	intake.Submitter
	List(ctx context.Context, q triage.Query) (triage.Page[Card], error)
	Get(ctx context.Context, idOrSlug string) (*Card, error)
	Search(ctx context.Context, term string, q triage.Query) (triage.Page[Card], error)
}

type service struct {
	repo      PublicRepository
	indexer   Indexer
	presenter Presenter
	notifier  notification.Recorder
	logger    *zap.Logger
}

func NewService(repo PublicRepository, indexer Indexer, presenter Presenter, notifier notification.Recorder, logger *zap.Logger) Service {
	return &service{
		repo:      repo,
		indexer:   indexer,
		presenter: presenter,
		notifier:  notifier,
		logger:    logger,
	}
}

func (s *service) cards(rows []Property) []Card {
	cards := make([]Card, len(rows))
	for i := range rows {
		cards[i] = s.presenter.ToCard(&rows[i])
	}
	return cards
}

func (s *service) List(ctx context.Context, q triage.Query) (triage.Page[Card], error) {
	rows, err := s.repo.ListPublished(ctx)
	if err != nil {
		s.logger.Error("Failed to list published properties", zap.Error(err))
		return triage.Page[Card]{}, common.ErrInternalServer.WithDetails("Could not retrieve properties.")
	}
	return publicTriage.Apply(s.cards(rows), q), nil
}

func (s *service) Get(ctx context.Context, idOrSlug string) (*Card, error) {
	row, err := s.repo.FindPublished(ctx, idOrSlug)
	if err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return nil, err
		}
		s.logger.Error("Failed to load property", zap.String("idOrSlug", idOrSlug), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not retrieve property.")
	}
	card := s.presenter.ToCard(row)
	return &card, nil
}

// Search uses the index when one is configured and falls back to the list search
// when it is not or when the index fails.
func (s *service) Search(ctx context.Context, term string, q triage.Query) (triage.Page[Card], error) {
	term = strings.TrimSpace(term)
	if term == "" || !s.indexer.Enabled() {
		q.Search = term
		return s.List(ctx, q)
	}

	ids, err := s.indexer.Search(ctx, term, searchLimit)
	if err != nil {
		s.logger.Warn("Index search failed, falling back to database search", zap.String("term", term), zap.Error(err))
		q.Search = term
		return s.List(ctx, q)
	}

	rows, err := s.repo.FindPublishedByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to load search hits", zap.Error(err))
		return triage.Page[Card]{}, common.ErrInternalServer.WithDetails("Could not search properties.")
	}
	byID := make(map[uuid.UUID]*Property, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}
	cards := make([]Card, 0, len(rows))
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			cards = append(cards, s.presenter.ToCard(row))
		}
	}

	q.Search = ""
	return publicTriage.Apply(cards, q), nil
}

// SubmitIntake turns a seller-listing submission into an unpublished property.
func (s *service) SubmitIntake(ctx context.Context, sub intake.Submission) (intake.Created, error) {
	v := sub.Values
	p := &Property{
		Title:          v.String("title"),
		Description:    v.String("description"),
		Currency:       s.presenter.DefaultCurrency,
		Address:        v.String("address"),
		Area:           v.String("area"),
		City:           v.String("city"),
		ListingStatus:  v.String("listing_status"),
		PropertyStatus: v.String("property_status"),
		Category:       v.String("category"),
		PropertyType:   v.String("property_type"),
		Amenities:      v.List("amenities"),
		Images:         sub.FileURLs("photos"),
		Documents:      sub.FileURLs("documents"),
		SubmittedBy:    sub.ProfileID,
		Reference:      &sub.Reference,
		ContactName:    v.String("contact_name"),
		ContactEmail:   strings.ToLower(v.String("contact_email")),
		ContactPhone:   v.String("contact_phone"),
	}
	p.Price, _ = v.Float("price")
	p.Beds, _ = v.Int("beds")
	p.Baths, _ = v.Int("baths")
	p.Sqft, _ = v.Float("sqft")

	problems := make(map[string]string)
	if p.Price <= 0 {
		problems["price"] = "The price field must be greater than zero."
	}
	if !status.ListingIntent.Contains(p.ListingStatus) {
		problems["listing_status"] = fmt.Sprintf("The listing_status field must be one of: %s.", strings.Join(status.ListingIntent.Values(), ", "))
	}
	if p.PropertyStatus == "" {
		p.PropertyStatus = "ready"
	} else if !status.PropertyStatus.Contains(p.PropertyStatus) {
		problems["property_status"] = fmt.Sprintf("The property_status field must be one of: %s.", strings.Join(status.PropertyStatus.Values(), ", "))
	}
	if len(problems) > 0 {
		return intake.Created{}, common.NewValidationAPIError(problems)
	}

	p.Slug = sellerSlug(p.Title, sub.Reference)
	if err := s.repo.Create(ctx, p); err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return intake.Created{}, err
		}
		s.logger.Error("Failed to create property from seller listing", zap.String("reference", sub.Reference), zap.Error(err))
		return intake.Created{}, common.ErrInternalServer.WithDetails("Could not save the listing.")
	}

	if err := s.indexer.Index(ctx, p); err != nil {
		s.logger.Warn("Failed to index seller listing", zap.String("propertyID", p.ID.String()), zap.Error(err))
	}
	s.notifier.Record(ctx, notification.KindSellerListing, p.ID, fmt.Sprintf("New seller listing %s: %s", sub.Reference, p.Title))

	return intake.Created{
		Entity:   "property",
		ID:       p.ID,
		Redirect: "/sell/thank-you?ref=" + sub.Reference,
	}, nil
}

// sellerSlug suffixes the title slug with the reference code, which is unique.
func sellerSlug(title, reference string) string {
	base := slug.Make(title)
	code := strings.ToLower(reference[strings.LastIndex(reference, "-")+1:])
	if base == "" {
		return "listing-" + code
	}
	return base + "-" + code
}
