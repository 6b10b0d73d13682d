package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"checkout-service/internal/models"
	"checkout-service/internal/repository"
)

func TestCreateMethod_Defaults(t *testing.T) {
	methods := new(MockMethodRepository)
	svc := NewMethodService(methods, testLogger())

	methods.On("Create", mock.Anything, mock.Anything).Return(nil)

	method, err := svc.CreateMethod(context.Background(), "merchant-1", &models.CreateMethodRequest{
		Name:      "Bank Transfer",
		Countries: []string{"US", "GB"},
	})

	assert.NoError(t, err)
	assert.Equal(t, models.MethodManual, method.Type)
	assert.Equal(t, models.MethodActive, method.Status)
	assert.Equal(t, "merchant-1", method.MerchantID)
}

func TestCreateMethod_RejectsOverrideForUnsupportedCountry(t *testing.T) {
	methods := new(MockMethodRepository)
	svc := NewMethodService(methods, testLogger())

	_, err := svc.CreateMethod(context.Background(), "merchant-1", &models.CreateMethodRequest{
		Name:      "Bank Transfer",
		Countries: []string{"US"},
		CountrySpecificDetails: map[string]models.CountryOverride{
			"NG": {Instructions: "Pay via NGN account"},
		},
	})

	assert.True(t, models.IsCode(err, models.ErrCodeInvalidInput))
	methods.AssertNotCalled(t, "Create")
}

func TestCreateMethod_RejectsUnknownCountry(t *testing.T) {
	methods := new(MockMethodRepository)
	svc := NewMethodService(methods, testLogger())

	_, err := svc.CreateMethod(context.Background(), "merchant-1", &models.CreateMethodRequest{
		Name:      "Bank Transfer",
		Countries: []string{"ZZ"},
	})

	assert.True(t, models.IsCode(err, models.ErrCodeInvalidCountry))
}

func TestUpdateMethodStatus_RejectsUnknownStatus(t *testing.T) {
	methods := new(MockMethodRepository)
	svc := NewMethodService(methods, testLogger())

	err := svc.UpdateStatus(context.Background(), "merchant-1", uuid.New(), "paused")

	assert.True(t, models.IsCode(err, models.ErrCodeInvalidInput))
	methods.AssertNotCalled(t, "UpdateStatus")
}

func TestUpdateMethodStatus_UnknownMethod(t *testing.T) {
	methods := new(MockMethodRepository)
	svc := NewMethodService(methods, testLogger())

	id := uuid.New()
	methods.On("UpdateStatus", mock.Anything, id, "merchant-1", models.MethodInactive).
		Return(repository.ErrNotFound)

	err := svc.UpdateStatus(context.Background(), "merchant-1", id, models.MethodInactive)

	assert.True(t, models.IsCode(err, models.ErrCodeMethodNotEligible))
}

func TestCreateMethod_RequiresCountries(t *testing.T) {
	methods := new(MockMethodRepository)
	svc := NewMethodService(methods, testLogger())

	_, err := svc.CreateMethod(context.Background(), "merchant-1", &models.CreateMethodRequest{
		Name: "Bank Transfer",
	})

	assert.True(t, models.IsCode(err, models.ErrCodeInvalidInput))
}
