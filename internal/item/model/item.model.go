package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTitleLength mirrors the VARCHAR(200) column.
const MaxTitleLength = 200

// MaxItemID is the largest value a SERIAL id can take. Larger ids are well
// formed but can never match a row.
const MaxItemID = math.MaxInt32

type Item struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidationError reports a missing or malformed form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type AddItemInput struct {
	Title string
}

type EditItemInput struct {
	ID    int64
	Title string
}

type DeleteItemInput struct {
	ID int64
}

// Form field names used by the HTML page.
const (
	FieldNewItem   = "newItem"
	FieldEditID    = "updatedItemId"
	FieldEditTitle = "updatedItemTitle"
	FieldDeleteID  = "deleteItemId"
)

func (in *AddItemInput) Validate() error {
	title, err := cleanTitle(FieldNewItem, in.Title)
	if err != nil {
		return err
	}
	in.Title = title
	return nil
}

func (in *EditItemInput) Validate() error {
	if in.ID <= 0 {
		return &ValidationError{Field: FieldEditID, Message: "must be a positive integer"}
	}
	title, err := cleanTitle(FieldEditTitle, in.Title)
	if err != nil {
		return err
	}
	in.Title = title
	return nil
}

// InRange reports whether the id could belong to a row at all.
func (in *EditItemInput) InRange() bool {
	return in.ID <= MaxItemID
}

// InRange reports whether the id could belong to a row at all.
func (in *DeleteItemInput) InRange() bool {
	return in.ID <= MaxItemID
}

func (in *DeleteItemInput) Validate() error {
	if in.ID <= 0 {
		return &ValidationError{Field: FieldDeleteID, Message: "must be a positive integer"}
	}
	return nil
}

// ParseID converts a form value to an item id.
func ParseID(field, raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &ValidationError{Field: field, Message: "is required"}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &ValidationError{Field: field, Message: "must be a positive integer"}
	}
	return id, nil
}

func cleanTitle(field, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", &ValidationError{Field: field, Message: "is required"}
	}
	if !utf8.ValidString(title) || strings.ContainsRune(title, 0) {
		return "", &ValidationError{Field: field, Message: "contains invalid characters"}
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", &ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters", MaxTitleLength)}
	}
	return title, nil
}
