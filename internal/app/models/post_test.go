package models

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPost_DetailsAreFlattened(t *testing.T) {
	p := Post{
		ID:        "post-1-abc",
		Category:  CategoryTrips,
		Title:     "Biarritz day trip",
		Timestamp: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		Details: &TripDetails{
			CityName:  "Biarritz",
			TripDates: []string{"2025-03-10", "2025-03-12"},
		},
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var flat map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &flat))
	assert.Equal(t, "Biarritz", flat["cityName"])
	assert.Equal(t, "trips", flat["category"])
	assert.NotContains(t, flat, "Details")

	var back Post
	require.NoError(t, json.Unmarshal(data, &back))
	trip, ok := back.Trip()
	require.True(t, ok)
	assert.Equal(t, []string{"2025-03-10", "2025-03-12"}, trip.TripDates)
}

func TestPost_UnmarshalSelectsVariantByCategory(t *testing.T) {
	raw := `{"id":"post-2","category":"food","title":"Pintxos","restaurantName":"Gandarias","foodRating":"4.5","cityName":"ignored"}`

	var p Post
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	food, ok := p.Details.(*FoodDetails)
	require.True(t, ok)
	assert.Equal(t, "Gandarias", food.RestaurantName)
	require.NotNil(t, food.FoodRating)
	assert.Equal(t, Number(4.5), *food.FoodRating)

	_, isTrip := p.Trip()
	assert.False(t, isTrip)
}

func TestDetailsValidate(t *testing.T) {
	assert.NoError(t, TripDetails{TripDates: []string{"2025-03-10"}}.Validate())
	assert.Error(t, TripDetails{TripDates: []string{"10/03/2025"}}.Validate())
	assert.Error(t, FoodDetails{FoodRating: NumberPtr(7)}.Validate())
	assert.Error(t, CourseDetails{ExaminationType: []string{"oral"}}.Validate())
	assert.NoError(t, CourseDetails{ExaminationType: []string{"exams", "seminars"}, OnlineOrCampus: "campus"}.Validate())
}

func TestActorCanModify(t *testing.T) {
	owner := &Actor{ID: "u1"}
	admin := &Actor{ID: "u9", Admin: true}
	other := &Actor{ID: "u2"}
	var nobody *Actor

	assert.True(t, owner.CanModify("u1"))
	assert.True(t, admin.CanModify("u1"))
	assert.False(t, other.CanModify("u1"))
	assert.False(t, nobody.CanModify("u1"))
}
