package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/citynect/property-backend/models"
	"github.com/citynect/property-backend/repository"
	"github.com/citynect/property-backend/utils"
	"go.mongodb.org/mongo-driver/bson"
)

const titleSearchLimit = 50

type PropertyService struct {
	properties  PropertyStore
	users       UserStore
	statuses    StatusStore
	remarks     RemarkStore
	suggestions SuggestionStore
	cache       ResultCache
	policy      Policy

	now          func() time.Time
	randomNumber func() string
}

func NewPropertyService(properties PropertyStore, users UserStore, statuses StatusStore, remarks RemarkStore, suggestions SuggestionStore, cache ResultCache, policy Policy) *PropertyService {
	if cache == nil {
		cache = noCache{}
	}
	return &PropertyService{
		properties:   properties,
		users:        users,
		statuses:     statuses,
		remarks:      remarks,
		suggestions:  suggestions,
		cache:        cache,
		policy:       policy,
		now:          time.Now,
		randomNumber: utils.RandomMaskedNumber,
	}
}

// Filter runs a premium user's search. Users that are missing or not premium
// get an empty page before any catalog query runs.
func (s *PropertyService) Filter(ctx context.Context, req models.FilterRequest, page, size int) (*models.PropertyPage, error) {
	page, size = s.policy.NormalizePage(page, size)

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return emptyPage(page), nil
	}
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return emptyPage(page), nil
	}
	if err != nil {
		return nil, fmt.Errorf("PropertyService.Filter: loading user: %w", err)
	}
	if !user.Premium() {
		return emptyPage(page), nil
	}

	filter, err := BuildFilter(req, s.policy.location())
	if err != nil {
		return nil, err
	}

	query := cacheQuery("filter", req, page, size)
	var cached models.PropertyPage
	if hit, err := s.cache.Get(ctx, userID, query, &cached); err != nil {
		slog.Warn("cache read failed", "error", err)
	} else if hit {
		return &cached, nil
	}

	result, err := s.page(ctx, user, filter, page, size)
	if err != nil {
		return nil, fmt.Errorf("PropertyService.Filter: %w", err)
	}
	if err := s.cache.Set(ctx, userID, query, result); err != nil {
		slog.Warn("cache write failed", "error", err)
	}
	return result, nil
}

// SavedProperties lists the user's saved, non-deleted listings with the same
// enrichment as a search.
func (s *PropertyService) SavedProperties(ctx context.Context, userID string, page, size int) (*models.PropertyPage, error) {
	page, size = s.policy.NormalizePage(page, size)

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	saved := repository.ObjectIDs(user.SavedPropertyIDs)
	if len(saved) == 0 {
		return emptyPage(page), nil
	}

	query := cacheQuery("saved", nil, page, size)
	var cached models.PropertyPage
	if hit, err := s.cache.Get(ctx, userID, query, &cached); err != nil {
		slog.Warn("cache read failed", "error", err)
	} else if hit {
		return &cached, nil
	}

	filter := bson.M{"$and": []bson.M{notDeleted(), {"_id": bson.M{"$in": saved}}}}
	result, err := s.page(ctx, user, filter, page, size)
	if err != nil {
		return nil, fmt.Errorf("PropertyService.SavedProperties: %w", err)
	}
	if err := s.cache.Set(ctx, userID, query, result); err != nil {
		slog.Warn("cache write failed", "error", err)
	}
	return result, nil
}

// page excludes the user's hidden listings in the predicate itself, so the
// count and skip/limit already describe what the user will see.
func (s *PropertyService) page(ctx context.Context, user *models.User, filter bson.M, page, size int) (*models.PropertyPage, error) {
	userID := user.ID.Hex()

	hidden, err := s.statuses.PropertyIDsWithStatus(ctx, userID, s.policy.ExcludedStatuses)
	if err != nil {
		return nil, fmt.Errorf("loading excluded properties: %w", err)
	}
	filter = excludeIDs(filter, hidden)

	total, err := s.properties.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	properties, err := s.properties.Find(ctx, filter, int64(page)*int64(size), int64(size))
	if err != nil {
		return nil, err
	}

	views, err := s.enrich(ctx, user, properties)
	if err != nil {
		return nil, err
	}
	return newPage(views, page, size, total), nil
}

func (s *PropertyService) enrich(ctx context.Context, user *models.User, properties []models.Property) ([]models.PropertyView, error) {
	if len(properties) == 0 {
		return []models.PropertyView{}, nil
	}

	userID := user.ID.Hex()
	ids := make([]string, len(properties))
	for i, p := range properties {
		ids[i] = p.ID.Hex()
	}

	statuses, err := s.statuses.ForUser(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("loading statuses: %w", err)
	}
	remarks, err := s.remarks.ForUser(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("loading remarks: %w", err)
	}

	viewer := newViewer(user, statuses, remarks, s.policy.excludedSet())
	if s.policy.PrivilegedUserID != "" && userID == s.policy.PrivilegedUserID {
		viewer.Privileged = true
		viewer.RandomNumber = s.randomNumber
	}
	return Enrich(properties, viewer), nil
}

// Titles returns listing titles containing q, newest first.
func (s *PropertyService) Titles(ctx context.Context, q string) ([]string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, utils.Validation("Search query is required")
	}
	filter := bson.M{"$and": []bson.M{notDeleted(), {"title": contains(q)}}}
	titles, err := s.properties.Titles(ctx, filter, titleSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("PropertyService.Titles: %w", err)
	}
	return titles, nil
}

// Counts reports listings created today and currently live, per listing type.
func (s *PropertyService) Counts(ctx context.Context) (*models.PropertyCounts, error) {
	now := s.now().In(s.policy.location())
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	count := func(propertyType string, today bool) (int64, error) {
		filter := bson.M{"type": propertyType, "isDeleted": bson.M{"$ne": 1}}
		if today {
			filter["createdOn"] = bson.M{"$gte": startOfDay, "$lt": endOfDay}
		}
		return s.properties.Count(ctx, filter)
	}

	var counts models.PropertyCounts
	targets := []struct {
		propertyType string
		today        bool
		dst          *int64
	}{
		{models.TypeResidentialRent, true, &counts.TodayResidentialRental},
		{models.TypeResidentialSell, true, &counts.TodayResidentialSell},
		{models.TypeCommercialRent, true, &counts.TodayCommercialRent},
		{models.TypeCommercialSell, true, &counts.TodayCommercialSell},
		{models.TypeResidentialRent, false, &counts.ActiveResidentialRental},
		{models.TypeResidentialSell, false, &counts.ActiveResidentialSell},
		{models.TypeCommercialRent, false, &counts.ActiveCommercialRent},
		{models.TypeCommercialSell, false, &counts.ActiveCommercialSell},
	}
	for _, t := range targets {
		n, err := count(t.propertyType, t.today)
		if err != nil {
			return nil, fmt.Errorf("PropertyService.Counts: %w", err)
		}
		*t.dst = n
	}
	counts.TotalActiveProperties = counts.ActiveResidentialRental + counts.ActiveResidentialSell +
		counts.ActiveCommercialRent + counts.ActiveCommercialSell
	return &counts, nil
}

// Contact reveals a listing's contact details, spending one credit the first
// time a user contacts a given property.
func (s *PropertyService) Contact(ctx context.Context, userID, propID string) (*models.ContactDetails, error) {
	userID, propID = strings.TrimSpace(userID), strings.TrimSpace(propID)
	if userID == "" || propID == "" {
		return nil, utils.Validation("User ID and Property ID are required")
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	property, err := liveProperty(ctx, s.properties, propID)
	if err != nil {
		return nil, err
	}
	details := &models.ContactDetails{Name: property.Name, Number: property.Number}

	if user.HasContacted(propID) {
		return details, nil
	}
	if user.Limit <= 0 {
		return nil, utils.Forbidden("Contact limit reached")
	}

	spent, err := s.users.RecordContact(ctx, userID, propID)
	if err != nil {
		return nil, fmt.Errorf("PropertyService.Contact: %w", err)
	}
	if !spent {
		// Lost a race: either another request contacted it first or the
		// last credit went elsewhere.
		fresh, err := s.loadUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !fresh.HasContacted(propID) {
			return nil, utils.Forbidden("Contact limit reached")
		}
	}

	s.invalidateUser(ctx, userID)
	return details, nil
}

// UpdateStatus records the user's status for a property. Moving into an
// excluded status also removes the property from the user's saved set.
// The two writes are not atomic; a failure between them is logged.
func (s *PropertyService) UpdateStatus(ctx context.Context, userID, propID, newStatus string) (*models.StatusChange, error) {
	userID, propID = strings.TrimSpace(userID), strings.TrimSpace(propID)
	if userID == "" || propID == "" || newStatus == "" {
		return nil, utils.Validation("Property ID, new status, and user ID are required")
	}
	if !models.ValidStatus(newStatus) {
		return nil, utils.Validation("Invalid status. Must be one of: %s", strings.Join(models.ValidStatuses(), ", "))
	}

	record, err := s.statuses.Upsert(ctx, userID, propID, newStatus, s.now())
	if err != nil {
		return nil, fmt.Errorf("PropertyService.UpdateStatus: %w", err)
	}

	if s.policy.excludedSet()[newStatus] {
		err := s.users.RemoveSavedProperty(ctx, userID, propID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			slog.Error("status saved but saved-set prune failed", "userId", userID, "propId", propID, "error", err)
			return nil, fmt.Errorf("PropertyService.UpdateStatus: pruning saved set: %w", err)
		}
	}

	s.invalidateUser(ctx, userID)
	return &models.StatusChange{ID: record.PropID, Status: record.Status}, nil
}

func (s *PropertyService) AddOrUpdateRemark(ctx context.Context, userID, propID, remark string) (*models.PropertyRemark, error) {
	userID, propID = strings.TrimSpace(userID), strings.TrimSpace(propID)
	if userID == "" || propID == "" {
		return nil, utils.Validation("User ID and Property ID are required")
	}

	record, err := s.remarks.Upsert(ctx, userID, propID, strings.TrimSpace(remark), s.now())
	if err != nil {
		return nil, fmt.Errorf("PropertyService.AddOrUpdateRemark: %w", err)
	}
	s.invalidateUser(ctx, userID)
	return record, nil
}

func (s *PropertyService) SubmitSuggestion(ctx context.Context, req models.SuggestionRequest) (*models.Suggestion, error) {
	text := strings.TrimSpace(req.Text)
	if strings.TrimSpace(req.UserID) == "" || text == "" {
		return nil, utils.Validation("User ID and suggestion text are required")
	}
	category := req.Category
	if category == "" {
		category = models.SuggestionCategoryOther
	}
	if !models.ValidSuggestionCategory(category) {
		return nil, utils.Validation("Invalid category")
	}

	now := s.now()
	suggestion := &models.Suggestion{
		UserID:    req.UserID,
		Text:      text,
		Category:  category,
		Status:    models.SuggestionPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.suggestions.InsertSuggestion(ctx, suggestion); err != nil {
		return nil, fmt.Errorf("PropertyService.SubmitSuggestion: %w", err)
	}
	return suggestion, nil
}

// ContactedProperties exports the full records of every property the user
// has contacted.
func (s *PropertyService) ContactedProperties(ctx context.Context, userID string) ([]models.Property, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.ContactedPropertyIDs) == 0 {
		return nil, utils.NotFound("No contacted properties found for this user")
	}
	properties, err := s.properties.FindByIDs(ctx, user.ContactedPropertyIDs)
	if err != nil {
		return nil, fmt.Errorf("PropertyService.ContactedProperties: %w", err)
	}
	return properties, nil
}

func (s *PropertyService) SoftDelete(ctx context.Context, propID string) error {
	if err := s.properties.SoftDelete(ctx, propID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFound("Property not found")
		}
		return fmt.Errorf("PropertyService.SoftDelete: %w", err)
	}
	s.invalidateAll(ctx)
	return nil
}

func (s *PropertyService) SetLifecycleStatus(ctx context.Context, propID, status string) error {
	status = strings.TrimSpace(status)
	if status == "" {
		return utils.Validation("status is required")
	}
	if err := s.properties.SetLifecycleStatus(ctx, propID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFound("Property not found")
		}
		return fmt.Errorf("PropertyService.SetLifecycleStatus: %w", err)
	}
	s.invalidateAll(ctx)
	return nil
}

func (s *PropertyService) loadUser(ctx context.Context, userID string) (*models.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, utils.Validation("User ID is required")
	}
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("loading user %s: %w", userID, err)
	}
	return user, nil
}

// liveProperty loads a property that has not been soft-deleted.
func liveProperty(ctx context.Context, properties PropertyStore, propID string) (*models.Property, error) {
	property, err := properties.FindByID(ctx, propID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFound("Property not found")
	}
	if err != nil {
		return nil, fmt.Errorf("loading property %s: %w", propID, err)
	}
	if property.IsDeleted == 1 {
		return nil, utils.NotFound("Property not found")
	}
	return property, nil
}

func (s *PropertyService) invalidateUser(ctx context.Context, userID string) {
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		slog.Warn("cache invalidation failed", "userId", userID, "error", err)
	}
}

func (s *PropertyService) invalidateAll(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		slog.Warn("cache invalidation failed", "error", err)
	}
}

func cacheQuery(kind string, req interface{}, page, size int) string {
	body, _ := json.Marshal(req)
	return fmt.Sprintf("%s|%d|%d|%s", kind, page, size, body)
}
