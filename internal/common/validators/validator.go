// Package validators converts the dynamic record shapes the engine's
// external interface accepts (§6: loose maps with required keys) into
// the statically typed records of the data model (§3), surfacing
// MissingRequiredAttribute up front per spec §9: "a builder/validator
// at the boundary converts loose external dictionaries into these
// typed records."
//
// Grounded in the teacher's internal/common/validators/validator.go:
// the Validator type is kept, now exposing BuildWorkOrder/BuildTechnician
// (map[string]interface{} in, typed record and error out); the
// Indonesia-domain field checks it used
// (VIN, NIK, SIM) have no referent here and are replaced with the
// WorkOrder/Technician boundary checks this engine actually needs.
package validators

import (
	"fmt"
	"strings"
	"time"

	playgroundvalidator "github.com/go-playground/validator/v10"

	apperrors "github.com/fieldroute/optimizer/pkg/errors"
	"github.com/fieldroute/optimizer/pkg/models"
)

// Validator converts raw records into typed domain entities.
type Validator struct {
	structValidator *playgroundvalidator.Validate
}

// NewValidator creates a new boundary Validator.
func NewValidator() *Validator {
	return &Validator{structValidator: playgroundvalidator.New()}
}

// ValidationError represents a single validation failure with field
// information. Kept from the teacher's shape.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationErrors represents multiple validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(ve))
	for i, err := range ve {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "; ")
}

// workOrderInput is the intermediate struct-tag-validated shape of a
// work-order record. Pointer fields distinguish "missing" from "present
// zero value" (duration_minutes: 0 is valid; nil is missing) — a
// distinction go-playground/validator's `required` tag cannot draw
// against a bare value type.
type workOrderInput struct {
	ID              string     `validate:"required"`
	PropertyID      string     `validate:"required"`
	Lat             *float64   `validate:"required"`
	Lng             *float64   `validate:"required"`
	Priority        string     `validate:"required"`
	RequiredSkills  []string
	DurationMinutes *int       `validate:"required"`
	TimeWindowStart *time.Time `validate:"required"`
	TimeWindowEnd   *time.Time `validate:"required"`
}

// technicianInput is the intermediate struct-tag-validated shape of a
// technician record.
type technicianInput struct {
	ID         string     `validate:"required"`
	Name       string     `validate:"required"`
	Skills     []string
	HomeLat    *float64   `validate:"required"`
	HomeLng    *float64   `validate:"required"`
	MaxHours   *float64   `validate:"required"`
	ShiftStart *time.Time `validate:"required"`
	ShiftEnd   *time.Time `validate:"required"`
}

// BuildWorkOrder converts a raw record (§6's work-order record keys)
// into a models.WorkOrder, returning MissingRequiredAttribute naming
// the offending record and attribute for the first missing key, or
// InvalidWindow if time_window_start is after time_window_end.
func (v *Validator) BuildWorkOrder(record map[string]interface{}) (models.WorkOrder, error) {
	input := workOrderInput{
		ID:              stringField(record, "id"),
		PropertyID:      stringField(record, "property_id"),
		Lat:             floatPtrField(record, "lat"),
		Lng:             floatPtrField(record, "lng"),
		Priority:        stringField(record, "priority"),
		RequiredSkills:  stringSliceField(record, "required_skills"),
		DurationMinutes: intPtrField(record, "duration_minutes"),
		TimeWindowStart: timePtrField(record, "time_window_start"),
		TimeWindowEnd:   timePtrField(record, "time_window_end"),
	}

	if err := v.structValidator.Struct(input); err != nil {
		return models.WorkOrder{}, missingAttributeFrom(err, input.ID)
	}

	if input.TimeWindowStart.After(*input.TimeWindowEnd) {
		return models.WorkOrder{}, apperrors.NewInvalidWindowError(
			fmt.Sprintf("work order %q: time_window_start after time_window_end", input.ID))
	}

	return models.WorkOrder{
		ID:              input.ID,
		PropertyID:      input.PropertyID,
		Location:        models.Location{Lat: *input.Lat, Lng: *input.Lng},
		Priority:        models.ParsePriority(input.Priority),
		RequiredSkills:  input.RequiredSkills,
		ServiceDuration: time.Duration(*input.DurationMinutes) * time.Minute,
		TimeWindowStart: *input.TimeWindowStart,
		TimeWindowEnd:   *input.TimeWindowEnd,
	}, nil
}

// BuildTechnician converts a raw record (§6's technician record keys)
// into a models.Technician.
func (v *Validator) BuildTechnician(record map[string]interface{}) (models.Technician, error) {
	input := technicianInput{
		ID:         stringField(record, "id"),
		Name:       stringField(record, "name"),
		Skills:     stringSliceField(record, "skills"),
		HomeLat:    floatPtrField(record, "home_lat"),
		HomeLng:    floatPtrField(record, "home_lng"),
		MaxHours:   floatPtrField(record, "max_hours"),
		ShiftStart: timePtrField(record, "shift_start"),
		ShiftEnd:   timePtrField(record, "shift_end"),
	}

	if err := v.structValidator.Struct(input); err != nil {
		return models.Technician{}, missingAttributeFrom(err, input.ID)
	}

	if input.ShiftStart.After(*input.ShiftEnd) {
		return models.Technician{}, apperrors.NewInvalidWindowError(
			fmt.Sprintf("technician %q: shift_start after shift_end", input.ID))
	}

	return models.Technician{
		ID:         input.ID,
		Name:       input.Name,
		Skills:     input.Skills,
		Home:       models.Location{Lat: *input.HomeLat, Lng: *input.HomeLng},
		MaxHours:   *input.MaxHours,
		ShiftStart: *input.ShiftStart,
		ShiftEnd:   *input.ShiftEnd,
	}, nil
}

// missingAttributeFrom converts the first go-playground/validator
// field error into a MissingRequiredAttribute AppError naming entityID
// and the attribute in snake_case.
func missingAttributeFrom(err error, entityID string) error {
	if fieldErrs, ok := err.(playgroundvalidator.ValidationErrors); ok && len(fieldErrs) > 0 {
		return apperrors.NewMissingRequiredAttributeError(entityID, toSnakeCase(fieldErrs[0].Field()))
	}
	return apperrors.NewMissingRequiredAttributeError(entityID, "unknown")
}

func toSnakeCase(field string) string {
	var b strings.Builder
	prevUpper := false
	for i, r := range field {
		upper := r >= 'A' && r <= 'Z'
		if i > 0 && upper && !prevUpper {
			b.WriteByte('_')
		}
		b.WriteRune(r)
		prevUpper = upper
	}
	return strings.ToLower(b.String())
}

func stringField(record map[string]interface{}, key string) string {
	if v, ok := record[key].(string); ok {
		return v
	}
	return ""
}

func stringSliceField(record map[string]interface{}, key string) []string {
	switch v := record[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func floatPtrField(record map[string]interface{}, key string) *float64 {
	switch v := record[key].(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	default:
		return nil
	}
}

func intPtrField(record map[string]interface{}, key string) *int {
	switch v := record[key].(type) {
	case int:
		return &v
	case float64:
		i := int(v)
		return &i
	default:
		return nil
	}
}

func timePtrField(record map[string]interface{}, key string) *time.Time {
	switch v := record[key].(type) {
	case time.Time:
		return &v
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return &t
		}
		return nil
	default:
		return nil
	}
}
