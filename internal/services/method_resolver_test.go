package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"checkout-service/internal/models"
)

func bankTransferMethod(merchantID string) *models.PaymentMethod {
	return &models.PaymentMethod{
		ID:           uuid.New(),
		MerchantID:   merchantID,
		Name:         "Bank Transfer",
		Type:         models.MethodManual,
		Status:       models.MethodActive,
		Countries:    models.StringArray{"US", "GB", "NG"},
		Instructions: "Wire to account 12345",
		CustomFields: models.CustomFieldList{
			{ID: "ref", Label: "Payment reference", Type: "text", Required: true},
		},
	}
}

func TestEffectiveDetails_GlobalFallback(t *testing.T) {
	method := bankTransferMethod("merchant-1")

	details := EffectiveDetails(method, "US")

	assert.Equal(t, "Wire to account 12345", details.Instructions)
	assert.Len(t, details.CustomFields, 1)
	assert.Equal(t, "", details.AdditionalInfo)
}

func TestEffectiveDetails_CheckoutInstructionsPreferred(t *testing.T) {
	method := bankTransferMethod("merchant-1")
	method.InstructionsForCheckout = "Use the short reference shown below"

	details := EffectiveDetails(method, "US")

	assert.Equal(t, "Use the short reference shown below", details.Instructions)
}

func TestEffectiveDetails_OverrideReplacesWholesale(t *testing.T) {
	method := bankTransferMethod("merchant-1")
	method.CountrySpecificDetails = models.CountryOverrideMap{
		"NG": {
			Instructions: "Pay via NGN account 999",
			CustomFields: []models.CustomField{
				{ID: "bvn", Label: "BVN", Type: "text", Required: true},
				{ID: "ref", Label: "Reference", Type: "text", Required: true},
			},
			AdditionalInfo: "NGN transfers settle within 24h",
		},
	}

	details := EffectiveDetails(method, "NG")

	assert.Equal(t, "Pay via NGN account 999", details.Instructions)
	assert.Len(t, details.CustomFields, 2)
	assert.Equal(t, "NGN transfers settle within 24h", details.AdditionalInfo)

	// Other countries are unaffected by the override
	us := EffectiveDetails(method, "US")
	assert.Equal(t, "Wire to account 12345", us.Instructions)
	assert.Len(t, us.CustomFields, 1)
	assert.Equal(t, "", us.AdditionalInfo)
}

func TestEffectiveDetails_EmptyOverrideSectionFallsBack(t *testing.T) {
	method := bankTransferMethod("merchant-1")
	method.CountrySpecificDetails = models.CountryOverrideMap{
		"GB": {AdditionalInfo: "Faster Payments preferred"},
	}

	details := EffectiveDetails(method, "GB")

	// An override with no instructions or fields keeps the global ones
	assert.Equal(t, "Wire to account 12345", details.Instructions)
	assert.Len(t, details.CustomFields, 1)
	assert.Equal(t, "Faster Payments preferred", details.AdditionalInfo)
}

func TestEffectiveDetails_Deterministic(t *testing.T) {
	method := bankTransferMethod("merchant-1")
	method.CountrySpecificDetails = models.CountryOverrideMap{
		"NG": {Instructions: "Pay via NGN account"},
	}

	first := EffectiveDetails(method, "NG")
	second := EffectiveDetails(method, "NG")

	assert.Equal(t, first, second)
}

func TestResolve_FiltersByCountryAndStatus(t *testing.T) {
	methods := new(MockMethodRepository)
	resolver := NewMethodResolver(methods)

	eligible := bankTransferMethod("merchant-1")
	wrongCountry := bankTransferMethod("merchant-1")
	wrongCountry.Name = "Mobile Money"
	wrongCountry.Countries = models.StringArray{"KE"}

	// The repository only returns active methods; the resolver filters by
	// country on top
	methods.On("ListActiveByMerchant", mock.Anything, "merchant-1").
		Return([]models.PaymentMethod{*eligible, *wrongCountry}, nil)

	resolved, err := resolver.Resolve(context.Background(), "merchant-1", "US")

	assert.NoError(t, err)
	assert.Len(t, resolved, 1)
	assert.Equal(t, "Bank Transfer", resolved[0].Name)
}

func TestResolve_PreservesRepositoryOrder(t *testing.T) {
	methods := new(MockMethodRepository)
	resolver := NewMethodResolver(methods)

	first := bankTransferMethod("merchant-1")
	first.Name = "First"
	second := bankTransferMethod("merchant-1")
	second.Name = "Second"

	methods.On("ListActiveByMerchant", mock.Anything, "merchant-1").
		Return([]models.PaymentMethod{*first, *second}, nil)

	resolved, err := resolver.Resolve(context.Background(), "merchant-1", "US")

	assert.NoError(t, err)
	assert.Equal(t, "First", resolved[0].Name)
	assert.Equal(t, "Second", resolved[1].Name)
}

func TestResolve_NoMethodsForCountry(t *testing.T) {
	methods := new(MockMethodRepository)
	resolver := NewMethodResolver(methods)

	method := bankTransferMethod("merchant-1")
	methods.On("ListActiveByMerchant", mock.Anything, "merchant-1").
		Return([]models.PaymentMethod{*method}, nil)

	_, err := resolver.Resolve(context.Background(), "merchant-1", "JP")

	assert.True(t, models.IsCode(err, models.ErrCodeNoMethodsForCountry))
}

func TestResolveOne_RejectsForeignMethod(t *testing.T) {
	methods := new(MockMethodRepository)
	resolver := NewMethodResolver(methods)

	method := bankTransferMethod("merchant-2")

	_, err := resolver.ResolveOne(context.Background(), "merchant-1", "US", method)

	assert.True(t, models.IsCode(err, models.ErrCodeMethodNotEligible))
}

func TestResolveOne_RejectsInactiveMethod(t *testing.T) {
	methods := new(MockMethodRepository)
	resolver := NewMethodResolver(methods)

	method := bankTransferMethod("merchant-1")
	method.Status = models.MethodPending

	_, err := resolver.ResolveOne(context.Background(), "merchant-1", "US", method)

	assert.True(t, models.IsCode(err, models.ErrCodeMethodNotEligible))
}
