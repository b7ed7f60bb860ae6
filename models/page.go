package models

// PageView wraps every localized page payload.
type PageView struct {
	Language  Language `json:"language"`
	Alternate string   `json:"alternate"`
	// Stale lists collections whose live sync is failing; their data may be out of date.
	Stale   map[string]string `json:"stale,omitempty"`
	Content interface{}       `json:"content"`
}

type HomePage struct {
	Featured      []MenuItemView `json:"featured"`
	AverageRating float64        `json:"averageRating"`
	ReviewCount   int            `json:"reviewCount"`
	LatestReviews []ReviewView   `json:"latestReviews"`
	Gallery       []GalleryItem  `json:"gallery"`
}

// CategoryOption is one entry of a page's category filter.
type CategoryOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type MenuPage struct {
	Category   string           `json:"category"`
	Categories []CategoryOption `json:"categories"`
	Items      []MenuItemView   `json:"items"`
}

type ReviewsPage struct {
	AverageRating float64      `json:"averageRating"`
	Count         int          `json:"count"`
	Reviews       []ReviewView `json:"reviews"`
}

type GalleryPage struct {
	Category   string           `json:"category"`
	Categories []CategoryOption `json:"categories"`
	Items      []GalleryItem    `json:"items"`
}

type AboutPage struct {
	Restaurant string `json:"restaurant"`
	Cuisine    string `json:"cuisine"`
	MenuCount  int    `json:"menuCount"`
}

// Dashboard is everything the admin screen edits.
type Dashboard struct {
	Menu     []MenuItem        `json:"menu"`
	Reviews  []Review          `json:"reviews"`
	Gallery  []GalleryItem     `json:"gallery"`
	Messages []ContactMessage  `json:"messages"`
	Stale    map[string]string `json:"stale,omitempty"`
}
