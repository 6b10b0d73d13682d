package services

import (
	"context"

	"checkout-service/internal/models"
	"checkout-service/internal/repository"
)

// MethodResolver resolves which payment methods a checkout presents for a
// given country, with country overrides already merged
type MethodResolver struct {
	methods repository.MethodRepositoryInterface
}

// NewMethodResolver creates a new method resolver
func NewMethodResolver(methods repository.MethodRepositoryInterface) *MethodResolver {
	return &MethodResolver{methods: methods}
}

// Resolve returns the merchant's active methods available in the country,
// ordered by display order then creation time. The same inputs always
// produce the same list in the same order.
func (r *MethodResolver) Resolve(ctx context.Context, merchantID, countryCode string) ([]models.ResolvedMethod, error) {
	active, err := r.methods.ListActiveByMerchant(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	var resolved []models.ResolvedMethod
	for i := range active {
		method := &active[i]
		if !method.SupportsCountry(countryCode) {
			continue
		}
		details := EffectiveDetails(method, countryCode)
		resolved = append(resolved, models.ResolvedMethod{
			ID:             method.ID.String(),
			Name:           method.Name,
			Type:           method.Type,
			Instructions:   details.Instructions,
			CustomFields:   details.CustomFields,
			AdditionalInfo: details.AdditionalInfo,
		})
	}

	if len(resolved) == 0 {
		return nil, models.NewServiceError(models.ErrCodeNoMethodsForCountry, "no payment methods available for this country")
	}

	return resolved, nil
}

// ResolveOne resolves a single method for a country, enforcing ownership,
// active status and country eligibility
func (r *MethodResolver) ResolveOne(ctx context.Context, merchantID, countryCode string, method *models.PaymentMethod) (*models.ResolvedMethod, error) {
	if method.MerchantID != merchantID || method.Status != models.MethodActive || !method.SupportsCountry(countryCode) {
		return nil, models.NewServiceError(models.ErrCodeMethodNotEligible, "payment method is not available for this checkout")
	}
	details := EffectiveDetails(method, countryCode)
	return &models.ResolvedMethod{
		ID:             method.ID.String(),
		Name:           method.Name,
		Type:           method.Type,
		Instructions:   details.Instructions,
		CustomFields:   details.CustomFields,
		AdditionalInfo: details.AdditionalInfo,
	}, nil
}

// EffectiveDetails merges a method's global fallbacks with its override for
// the country. Each section is replaced wholesale when the override carries
// a non-empty value; sections never mix.
func EffectiveDetails(method *models.PaymentMethod, countryCode string) models.EffectiveDetails {
	override, hasOverride := method.CountrySpecificDetails[countryCode]

	instructions := ""
	switch {
	case hasOverride && override.Instructions != "":
		instructions = override.Instructions
	case method.InstructionsForCheckout != "":
		instructions = method.InstructionsForCheckout
	default:
		instructions = method.Instructions
	}

	fields := []models.CustomField(method.CustomFields)
	if hasOverride && len(override.CustomFields) > 0 {
		fields = override.CustomFields
	}
	if fields == nil {
		fields = []models.CustomField{}
	}

	additionalInfo := ""
	if hasOverride {
		additionalInfo = override.AdditionalInfo
	}

	return models.EffectiveDetails{
		Instructions:   instructions,
		CustomFields:   fields,
		AdditionalInfo: additionalInfo,
	}
}
