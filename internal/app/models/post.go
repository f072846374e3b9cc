package models

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Category of a tip
type Category string

const (
	CategoryCourses    Category = "courses"
	CategoryFood       Category = "food"
	CategoryClubs      Category = "clubs"
	CategoryActivities Category = "activities"
	CategoryTrips      Category = "trips"
)

// Categories lists the post categories in display order
var Categories = []Category{CategoryCourses, CategoryFood, CategoryClubs, CategoryActivities, CategoryTrips}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// Post is a tip. Category specific fields live in Details and are
// serialized flat, next to the common fields.
type Post struct {
	ID          string    `json:"id"`
	Category    Category  `json:"category"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Area        string    `json:"area,omitempty"`
	Price       string    `json:"price,omitempty"`
	Rating      *Number   `json:"rating,omitempty"`
	AuthorID    string    `json:"authorId"`
	AuthorName  string    `json:"authorName"`
	Verified    bool      `json:"verified"`
	Timestamp   time.Time `json:"timestamp"`
	PhotoURL    string    `json:"photoUrl,omitempty"`
	PhotoObject string    `json:"photoObject,omitempty"` // stored only, see dto.PostView
	Upvotes     int       `json:"upvotes"`
	ReportCount int       `json:"reportCount"`

	Details PostDetails `json:"-"`
}

// PostDetails is the category specific part of a post
type PostDetails interface {
	Category() Category
	Validate() error
}

// CourseDetails for category courses
type CourseDetails struct {
	Year            string   `json:"year,omitempty"`
	Semester        string   `json:"semester,omitempty"`
	ECTS            *Number  `json:"ects,omitempty"`
	OnlineOrCampus  string   `json:"onlineOrCampus,omitempty"`
	ExaminationType []string `json:"examinationType,omitempty"`
	Workload        *Number  `json:"workload,omitempty"`
	OverallScore    *Number  `json:"overallScore,omitempty"`
}

// FoodDetails for category food
type FoodDetails struct {
	RestaurantName   string  `json:"restaurantName,omitempty"`
	FoodCategory     string  `json:"foodCategory,omitempty"`
	FoodRating       *Number `json:"foodRating,omitempty"`
	AtmosphereRating *Number `json:"atmosphereRating,omitempty"`
}

// ClubDetails for category clubs
type ClubDetails struct {
	Name          string  `json:"name,omitempty"`
	Type          string  `json:"type,omitempty"`
	MusicStyle    string  `json:"musicStyle,omitempty"`
	OverallRating *Number `json:"overallRating,omitempty"`
}

// ActivityDetails for category activities
type ActivityDetails struct {
	ActivityName  string  `json:"activityName,omitempty"`
	Location      string  `json:"location,omitempty"`
	OverallRating *Number `json:"overallRating,omitempty"`
}

// TripDetails for category trips. TripDates are YYYY-MM-DD days.
type TripDetails struct {
	CityName      string   `json:"cityName,omitempty"`
	TravelType    string   `json:"travelType,omitempty"`
	TravelTime    string   `json:"travelTime,omitempty"`
	OverallRating *Number  `json:"overallRating,omitempty"`
	TripDates     []string `json:"tripDates,omitempty"`
}

func (CourseDetails) Category() Category   { return CategoryCourses }
func (FoodDetails) Category() Category     { return CategoryFood }
func (ClubDetails) Category() Category     { return CategoryClubs }
func (ActivityDetails) Category() Category { return CategoryActivities }
func (TripDetails) Category() Category     { return CategoryTrips }

// ExaminationTypes accepted for courses
var ExaminationTypes = map[string]bool{"exams": true, "written-assignments": true, "seminars": true}

func (d CourseDetails) Validate() error {
	for _, t := range d.ExaminationType {
		if !ExaminationTypes[t] {
			return fmt.Errorf("unknown examination type %q", t)
		}
	}
	if d.OnlineOrCampus != "" && d.OnlineOrCampus != "online" && d.OnlineOrCampus != "campus" {
		return fmt.Errorf("onlineOrCampus must be online or campus")
	}
	if err := checkRating("workload", d.Workload); err != nil {
		return err
	}
	return checkRating("overallScore", d.OverallScore)
}

func (d FoodDetails) Validate() error {
	if err := checkRating("foodRating", d.FoodRating); err != nil {
		return err
	}
	return checkRating("atmosphereRating", d.AtmosphereRating)
}

func (d ClubDetails) Validate() error {
	return checkRating("overallRating", d.OverallRating)
}

func (d ActivityDetails) Validate() error {
	return checkRating("overallRating", d.OverallRating)
}

func (d TripDetails) Validate() error {
	for _, day := range d.TripDates {
		if _, err := time.Parse("2006-01-02", day); err != nil {
			return fmt.Errorf("trip date %q must be formatted as YYYY-MM-DD", day)
		}
	}
	return checkRating("overallRating", d.OverallRating)
}

func checkRating(field string, n *Number) error {
	if n != nil && (*n < 0 || *n > 5) {
		return fmt.Errorf("%s must be between 0 and 5", field)
	}
	return nil
}

// NewDetails returns an empty details value for category
func NewDetails(c Category) (PostDetails, error) {
	switch c {
	case CategoryCourses:
		return &CourseDetails{}, nil
	case CategoryFood:
		return &FoodDetails{}, nil
	case CategoryClubs:
		return &ClubDetails{}, nil
	case CategoryActivities:
		return &ActivityDetails{}, nil
	case CategoryTrips:
		return &TripDetails{}, nil
	}
	return nil, fmt.Errorf("unknown category %q", c)
}

// DecodeDetails reads the category specific fields of a flat JSON object
func DecodeDetails(c Category, data []byte) (PostDetails, error) {
	d, err := NewDetails(c)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("invalid %s fields: %w", c, err)
	}
	return d, nil
}

// Trip returns the trip details of a trips post
func (p *Post) Trip() (*TripDetails, bool) {
	switch d := p.Details.(type) {
	case *TripDetails:
		return d, true
	case TripDetails:
		return &d, true
	}
	return nil, false
}

type plainPost Post

// MarshalJSON writes the details next to the common fields
func (p Post) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(plainPost(p))
	if err != nil {
		return nil, err
	}
	if p.Details == nil {
		return base, nil
	}
	extra, err := json.Marshal(p.Details)
	if err != nil {
		return nil, err
	}
	if len(extra) <= 2 {
		return base, nil
	}

	out := make([]byte, 0, len(base)+len(extra))
	out = append(out, base[:len(base)-1]...)
	out = append(out, ',')
	out = append(out, extra[1:]...)
	return out, nil
}

// UnmarshalJSON reads common fields, then the variant selected by category
func (p *Post) UnmarshalJSON(data []byte) error {
	var base plainPost
	if err := json.Unmarshal(data, &base); err != nil {
		return err
	}
	*p = Post(base)
	if !p.Category.Valid() {
		return nil
	}
	d, err := DecodeDetails(p.Category, data)
	if err != nil {
		return err
	}
	p.Details = d
	return nil
}
