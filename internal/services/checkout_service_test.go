package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"checkout-service/internal/models"
	"checkout-service/internal/repository"
)

func activeLink(slug string) *models.CheckoutLink {
	return &models.CheckoutLink{
		ID:         uuid.New(),
		MerchantID: "merchant-1",
		Slug:       slug,
		Title:      "Consulting Invoice",
		Amount:     250.00,
		Currency:   "USD",
		Status:     models.LinkActive,
		IsActive:   true,
	}
}

func TestValidate_ActiveLink(t *testing.T) {
	links := new(MockLinkRepository)
	svc := NewCheckoutService(links, testLogger())

	link := activeLink("pay-me")
	links.On("GetBySlug", mock.Anything, "pay-me").Return(link, nil)

	got, err := svc.Validate(context.Background(), "pay-me")

	assert.NoError(t, err)
	assert.Equal(t, link.ID, got.ID)
	links.AssertExpectations(t)
}

func TestValidate_NotFound(t *testing.T) {
	links := new(MockLinkRepository)
	svc := NewCheckoutService(links, testLogger())

	links.On("GetBySlug", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)

	_, err := svc.Validate(context.Background(), "ghost")

	assert.True(t, models.IsCode(err, models.ErrCodeLinkNotFound))
}

func TestValidate_DraftLinkIsInactive(t *testing.T) {
	links := new(MockLinkRepository)
	svc := NewCheckoutService(links, testLogger())

	link := activeLink("draft-link")
	link.Status = models.LinkDraft
	links.On("GetBySlug", mock.Anything, "draft-link").Return(link, nil)

	_, err := svc.Validate(context.Background(), "draft-link")

	assert.True(t, models.IsCode(err, models.ErrCodeLinkInactive))
}

func TestValidate_Expired(t *testing.T) {
	links := new(MockLinkRepository)
	svc := NewCheckoutService(links, testLogger())

	link := activeLink("expired")
	past := time.Now().Add(-time.Hour)
	link.ExpiresAt = &past
	links.On("GetBySlug", mock.Anything, "expired").Return(link, nil)

	_, err := svc.Validate(context.Background(), "expired")

	assert.True(t, models.IsCode(err, models.ErrCodeLinkExpired))
}

func TestValidate_InactiveWinsOverExpired(t *testing.T) {
	links := new(MockLinkRepository)
	svc := NewCheckoutService(links, testLogger())

	// A link that is both deactivated and expired must always report
	// inactive; status is checked before expiry
	link := activeLink("dead")
	link.IsActive = false
	past := time.Now().Add(-time.Hour)
	link.ExpiresAt = &past
	links.On("GetBySlug", mock.Anything, "dead").Return(link, nil)

	_, err := svc.Validate(context.Background(), "dead")

	assert.True(t, models.IsCode(err, models.ErrCodeLinkInactive))
}

func TestListCountries_NoRestrictionReturnsFullCatalogue(t *testing.T) {
	links := new(MockLinkRepository)
	svc := NewCheckoutService(links, testLogger())

	link := activeLink("open")
	links.On("GetBySlug", mock.Anything, "open").Return(link, nil)

	got, err := svc.ListCountries(context.Background(), "open")

	assert.NoError(t, err)
	assert.Greater(t, len(got), 50)
}

func TestListCountries_RestrictedPreservesCatalogueOrder(t *testing.T) {
	links := new(MockLinkRepository)
	svc := NewCheckoutService(links, testLogger())

	link := activeLink("restricted")
	// Stored out of display order; result must come back catalogue-ordered
	link.ActiveCountryCodes = models.StringArray{"US", "GH", "NG"}
	links.On("GetBySlug", mock.Anything, "restricted").Return(link, nil)

	got, err := svc.ListCountries(context.Background(), "restricted")

	assert.NoError(t, err)
	codes := make([]string, 0, len(got))
	for _, c := range got {
		codes = append(codes, c.Code)
	}
	assert.Equal(t, []string{"GH", "NG", "US"}, codes)
}

func TestListCountries_UnknownCodesDropped(t *testing.T) {
	links := new(MockLinkRepository)
	svc := NewCheckoutService(links, testLogger())

	link := activeLink("typo")
	link.ActiveCountryCodes = models.StringArray{"XX", "KE"}
	links.On("GetBySlug", mock.Anything, "typo").Return(link, nil)

	got, err := svc.ListCountries(context.Background(), "typo")

	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "KE", got[0].Code)
}

func TestValidateForCountry_RejectsUnlistedCountry(t *testing.T) {
	links := new(MockLinkRepository)
	svc := NewCheckoutService(links, testLogger())

	link := activeLink("restricted")
	link.ActiveCountryCodes = models.StringArray{"GB"}
	links.On("GetBySlug", mock.Anything, "restricted").Return(link, nil)

	_, err := svc.ValidateForCountry(context.Background(), "restricted", "US")
	assert.True(t, models.IsCode(err, models.ErrCodeInvalidCountry))

	got, err := svc.ValidateForCountry(context.Background(), "restricted", "GB")
	assert.NoError(t, err)
	assert.Equal(t, link.ID, got.ID)
}

func TestCreateLink_TakenSlugPreempted(t *testing.T) {
	links := new(MockLinkRepository)
	svc := NewCheckoutService(links, testLogger())

	links.On("SlugExists", mock.Anything, "taken").Return(true, nil)

	_, err := svc.CreateLink(context.Background(), "merchant-1", &models.CreateLinkRequest{
		Slug:   "taken",
		Title:  "Invoice",
		Amount: 100,
	})

	assert.True(t, models.IsCode(err, models.ErrCodeDuplicateSlug))
	links.AssertNotCalled(t, "Create")
}

func TestCreateLink_DuplicateSlug(t *testing.T) {
	links := new(MockLinkRepository)
	svc := NewCheckoutService(links, testLogger())

	// The pre-check misses when two creates race; the unique index wins
	links.On("SlugExists", mock.Anything, "taken").Return(false, nil)
	links.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	_, err := svc.CreateLink(context.Background(), "merchant-1", &models.CreateLinkRequest{
		Slug:   "taken",
		Title:  "Invoice",
		Amount: 100,
	})

	assert.True(t, models.IsCode(err, models.ErrCodeDuplicateSlug))
}

func TestCreateLink_RejectsUnknownCountry(t *testing.T) {
	links := new(MockLinkRepository)
	svc := NewCheckoutService(links, testLogger())

	_, err := svc.CreateLink(context.Background(), "merchant-1", &models.CreateLinkRequest{
		Slug:               "new",
		Title:              "Invoice",
		Amount:             100,
		ActiveCountryCodes: []string{"ZZ"},
	})

	assert.True(t, models.IsCode(err, models.ErrCodeInvalidCountry))
	links.AssertNotCalled(t, "Create")
}

func TestCreateLink_DefaultsApplied(t *testing.T) {
	links := new(MockLinkRepository)
	svc := NewCheckoutService(links, testLogger())

	links.On("SlugExists", mock.Anything, "defaults").Return(false, nil)
	links.On("Create", mock.Anything, mock.Anything).Return(nil)

	link, err := svc.CreateLink(context.Background(), "merchant-1", &models.CreateLinkRequest{
		Slug:   "defaults",
		Title:  "Invoice",
		Amount: 100,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.LinkActive, link.Status)
	assert.Equal(t, "USD", link.Currency)
	assert.True(t, link.IsActive)
}

func TestDeactivateLink_NotOwned(t *testing.T) {
	links := new(MockLinkRepository)
	svc := NewCheckoutService(links, testLogger())

	id := uuid.New()
	links.On("Deactivate", mock.Anything, id, "merchant-2").Return(repository.ErrNotFound)

	err := svc.DeactivateLink(context.Background(), "merchant-2", id)

	assert.True(t, models.IsCode(err, models.ErrCodeLinkNotFound))
}
