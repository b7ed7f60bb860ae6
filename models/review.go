package models

import (
	"math"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type ReviewSource string

const (
	ReviewSourceGoogle ReviewSource = "Google"
	ReviewSourceDirect ReviewSource = "Direct"
)

// Review is a guest review shown on the reviews page.
type Review struct {
	ID     string       `json:"id"`
	Author string       `json:"author"`
	Rating int64        `json:"rating"`
	TextEn string       `json:"textEn"`
	TextJa string       `json:"textJa"`
	Source ReviewSource `json:"source"`
	Avatar string       `json:"avatar,omitempty"`
}

func (r Review) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Author, validation.Required, validation.Length(1, 80)),
		validation.Field(&r.Rating, validation.Required, validation.Min(int64(1)), validation.Max(int64(5))),
		validation.Field(&r.Source, validation.Required, validation.In(ReviewSourceGoogle, ReviewSourceDirect)),
	)
}

type ReviewView struct {
	ID     string       `json:"id"`
	Author string       `json:"author"`
	Rating int64        `json:"rating"`
	Text   string       `json:"text"`
	Source ReviewSource `json:"source"`
	Avatar string       `json:"avatar,omitempty"`
}

func (r Review) Localize(lang Language) ReviewView {
	return ReviewView{
		ID:     r.ID,
		Author: r.Author,
		Rating: r.Rating,
		Text:   lang.Pick(r.TextEn, r.TextJa),
		Source: r.Source,
		Avatar: r.Avatar,
	}
}

// AverageRating is the mean rating rounded to one decimal place.
// With no reviews the page shows a perfect 5.0.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 5.0
	}
	var sum int64
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(reviews))
	return math.Round(avg*10) / 10
}
