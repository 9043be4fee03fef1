package models

import "time"

// Document is the single persisted record holding every collection of the
// store. It is always read and written whole.
type Document struct {
	Settings   Settings   `json:"settings"`
	User       User       `json:"user"`
	Categories []Category `json:"categories"`
	Products   []Product  `json:"products"`
	Orders     []Order    `json:"orders"`
	Analytics  Analytics  `json:"analytics"`
}

// Normalize replaces nil collections with empty ones so the document always
// serialises lists as [] and never null.
func (d *Document) Normalize() {
	if d.Categories == nil {
		d.Categories = []Category{}
	}
	if d.Products == nil {
		d.Products = []Product{}
	}
	if d.Orders == nil {
		d.Orders = []Order{}
	}
	if d.Settings.Social == nil {
		d.Settings.Social = map[string]string{}
	}
	for i := range d.Products {
		if d.Products[i].Images == nil {
			d.Products[i].Images = []string{}
		}
	}
	for i := range d.Orders {
		if d.Orders[i].Items == nil {
			d.Orders[i].Items = []OrderItem{}
		}
	}
}

// NextID returns a wall-clock derived id (Unix milliseconds) that is strictly
// greater than maxID, so ids are never reused within a collection even when
// two records are created in the same millisecond.
func NextID(now time.Time, maxID int64) int64 {
	id := now.UnixMilli()
	if id <= maxID {
		id = maxID + 1
	}
	return id
}
