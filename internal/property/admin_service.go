package property

import (
	"context"
	"fmt"
	"maps"
	"strconv"
	"strings"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/status"
	"estate_leads_backend/internal/triage"

	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// bulkConcurrency bounds the workers of one bulk request.
const bulkConcurrency = 4

// AdminFilterKeys are the query parameters read by the admin list.
var AdminFilterKeys = append([]string{"published", "featured"}, PublicFilterKeys...)

var adminTriage = triage.Config[Card]{
	Search: []func(Card) string{titleOf, locationOf},
	Filters: func() map[string]func(Card) string {
		f := maps.Clone(listFilters)
		f["published"] = func(c Card) string { return strconv.FormatBool(c.Published) }
		f["featured"] = func(c Card) string { return strconv.FormatBool(c.Featured) }
		return f
	}(),
	Sorters:  sorters,
	PageSize: triage.PropertyPageSize,
}

// AdminService backs the admin properties screen. All calls need a context
// stamped for the service tier.
type AdminService interface {
	List(ctx context.Context, q triage.Query) (triage.Page[Card], error)
	Get(ctx context.Context, id uuid.UUID) (*Card, error)
	Create(ctx context.Context, card Card) (*Card, error)
	Update(ctx context.Context, id uuid.UUID, patch []byte) (*Card, error)
	SetPublished(ctx context.Context, id uuid.UUID, published bool) (*Card, error)
	SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*Card, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Bulk(ctx context.Context, req BulkRequest) (*BulkResult, error)
	Reindex(ctx context.Context, batchSize int, refresh bool) (int, error)
}

type adminService struct {
	repo      AdminRepository
	indexer   Indexer
	presenter Presenter
	logger    *zap.Logger
}

func NewAdminService(repo AdminRepository, indexer Indexer, presenter Presenter, logger *zap.Logger) AdminService {
	return &adminService{repo: repo, indexer: indexer, presenter: presenter, logger: logger}
}

func (s *adminService) internal(msg string, err error, fields ...zap.Field) error {
	if _, ok := common.IsAPIError(err); ok {
		return err
	}
	s.logger.Error(msg, append(fields, zap.Error(err))...)
	return common.ErrInternalServer.WithDetails(msg + ".")
}

func (s *adminService) List(ctx context.Context, q triage.Query) (triage.Page[Card], error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return triage.Page[Card]{}, s.internal("Could not retrieve properties", err)
	}
	cards := make([]Card, len(rows))
	for i := range rows {
		cards[i] = s.presenter.ToAdminCard(&rows[i])
	}
	return adminTriage.Apply(cards, q), nil
}

func (s *adminService) Get(ctx context.Context, id uuid.UUID) (*Card, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.internal("Could not retrieve property", err, zap.String("propertyID", id.String()))
	}
	card := s.presenter.ToAdminCard(row)
	return &card, nil
}

func (s *adminService) Create(ctx context.Context, card Card) (*Card, error) {
	if err := validateCard(card); err != nil {
		return nil, err
	}
	row := &Property{}
	s.presenter.FromAdminEdit(card, row)
	if row.PropertyStatus == "" {
		row.PropertyStatus = "ready"
	}
	if row.Category == "" {
		row.Category = CategoryResidential
	}
	if row.Currency == "" {
		row.Currency = s.presenter.DefaultCurrency
	}

	want := card.Slug
	if want == "" {
		want = card.Title
	}
	var err error
	if row.Slug, err = s.uniqueSlug(ctx, want, uuid.Nil); err != nil {
		return nil, s.internal("Could not create property", err)
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, s.internal("Could not create property", err)
	}
	s.reindex(ctx, row)

	s.logger.Info("Property created", zap.String("propertyID", row.ID.String()), zap.String("slug", row.Slug))
	out := s.presenter.ToAdminCard(row)
	return &out, nil
}

// Update loads the full record, overlays the fields present in patch and saves
// the full record back.
func (s *adminService) Update(ctx context.Context, id uuid.UUID, patch []byte) (*Card, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.internal("Could not retrieve property", err, zap.String("propertyID", id.String()))
	}

	card, err := triage.Merge(s.presenter.ToAdminCard(row), patch)
	if err != nil {
		return nil, err
	}
	if err := validateStatuses(card); err != nil {
		return nil, err
	}

	s.presenter.FromAdminEdit(card, row)
	if card.Slug != "" && card.Slug != row.Slug {
		if row.Slug, err = s.uniqueSlug(ctx, card.Slug, row.ID); err != nil {
			return nil, s.internal("Could not update property", err)
		}
	}
	if err := s.repo.Save(ctx, row); err != nil {
		return nil, s.internal("Could not update property", err, zap.String("propertyID", id.String()))
	}
	s.reindex(ctx, row)

	out := s.presenter.ToAdminCard(row)
	return &out, nil
}

func (s *adminService) SetPublished(ctx context.Context, id uuid.UUID, published bool) (*Card, error) {
	return s.mutate(ctx, id, func(p *Property) { p.Published = published })
}

func (s *adminService) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*Card, error) {
	return s.mutate(ctx, id, func(p *Property) { p.Featured = featured })
}

func (s *adminService) mutate(ctx context.Context, id uuid.UUID, fn func(*Property)) (*Card, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.internal("Could not retrieve property", err, zap.String("propertyID", id.String()))
	}
	fn(row)
	if err := s.repo.Save(ctx, row); err != nil {
		return nil, s.internal("Could not update property", err, zap.String("propertyID", id.String()))
	}
	s.reindex(ctx, row)
	out := s.presenter.ToAdminCard(row)
	return &out, nil
}

func (s *adminService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.internal("Could not delete property", err, zap.String("propertyID", id.String()))
	}
	if err := s.indexer.Remove(ctx, id); err != nil {
		s.logger.Warn("Failed to remove property from index", zap.String("propertyID", id.String()), zap.Error(err))
	}
	s.logger.Info("Property deleted", zap.String("propertyID", id.String()))
	return nil
}

// Bulk applies one action to every id independently. A failure on one id does
// not stop the others.
func (s *adminService) Bulk(ctx context.Context, req BulkRequest) (*BulkResult, error) {
	ids := dedupe(req.IDs)
	errs := make([]error, len(ids))

	var g errgroup.Group
	g.SetLimit(bulkConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			errs[i] = s.applyBulk(ctx, req.Action, id)
			return nil
		})
	}
	_ = g.Wait()

	result := &BulkResult{Action: req.Action, Succeeded: []uuid.UUID{}, Failed: []BulkFailure{}}
	for i, id := range ids {
		if errs[i] == nil {
			result.Succeeded = append(result.Succeeded, id)
			continue
		}
		result.Failed = append(result.Failed, BulkFailure{ID: id, Error: errorText(errs[i])})
	}
	s.logger.Info("Bulk property action",
		zap.String("action", req.Action),
		zap.Int("succeeded", len(result.Succeeded)),
		zap.Int("failed", len(result.Failed)),
	)
	return result, nil
}

func (s *adminService) applyBulk(ctx context.Context, action string, id uuid.UUID) error {
	var err error
	switch action {
	case BulkPublish:
		_, err = s.SetPublished(ctx, id, true)
	case BulkUnpublish:
		_, err = s.SetPublished(ctx, id, false)
	case BulkFeature:
		_, err = s.SetFeatured(ctx, id, true)
	case BulkUnfeature:
		_, err = s.SetFeatured(ctx, id, false)
	case BulkDelete:
		err = s.Delete(ctx, id)
	default:
		err = common.ErrBadRequest.WithDetails(fmt.Sprintf("Unknown bulk action '%s'.", action))
	}
	return err
}

// Reindex pushes every property into the search index in batches.
func (s *adminService) Reindex(ctx context.Context, batchSize int, refresh bool) (int, error) {
	if !s.indexer.Enabled() {
		return 0, common.ErrServiceUnavailable.WithDetails("Elasticsearch is not configured.")
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	total := 0
	err := s.repo.InBatches(ctx, batchSize, func(batch []Property) error {
		n, err := s.indexer.Bulk(ctx, batch, refresh)
		total += n
		s.logger.Info("Indexed property batch", zap.Int("batch", len(batch)), zap.Int("indexed_total", total))
		return err
	})
	return total, err
}

func (s *adminService) reindex(ctx context.Context, p *Property) {
	if err := s.indexer.Index(ctx, p); err != nil {
		s.logger.Warn("Failed to index property", zap.String("propertyID", p.ID.String()), zap.Error(err))
	}
}

func (s *adminService) uniqueSlug(ctx context.Context, source string, self uuid.UUID) (string, error) {
	base := slug.Make(source)
	if base == "" {
		base = "property"
	}
	candidate := base
	for i := 2; i <= 50; i++ {
		taken, err := s.repo.SlugExists(ctx, candidate, self)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return base + "-" + strings.SplitN(uuid.NewString(), "-", 2)[0], nil
}

func validateCard(card Card) error {
	if err := binding.Validator.ValidateStruct(card); err != nil {
		return common.BindingError(err)
	}
	return validateStatuses(card)
}

func validateStatuses(card Card) error {
	problems := make(map[string]string)
	if !status.ListingIntent.Contains(card.ListingStatus) {
		problems["listing_status"] = fmt.Sprintf("The listing_status field must be one of: %s.", strings.Join(status.ListingIntent.Values(), ", "))
	}
	if card.PropertyStatus != "" && !status.PropertyStatus.Contains(card.PropertyStatus) {
		problems["property_status"] = fmt.Sprintf("The property_status field must be one of: %s.", strings.Join(status.PropertyStatus.Values(), ", "))
	}
	if len(problems) > 0 {
		return common.NewValidationAPIError(problems)
	}
	return nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func errorText(err error) string {
	if apiErr, ok := common.IsAPIError(err); ok {
		if details, ok := apiErr.Details.(string); ok && details != "" {
			return details
		}
		return apiErr.Message
	}
	return err.Error()
}
