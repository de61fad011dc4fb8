package model

import "time"

// Translation is derived from an entry and can always be regenerated.
type Translation struct {
	EntryID            string    `json:"entryId"`
	Language           string    `json:"language"`
	Title              *string   `json:"title,omitempty"`
	Description        *string   `json:"description,omitempty"`
	Content            *string   `json:"content,omitempty"`
	ReadabilityContent *string   `json:"readabilityContent,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

func (t Translation) Key() string { return TranslationKey(t.EntryID, t.Language) }

// TranslationKey builds the composite store key for (entryID, language).
func TranslationKey(entryID, language string) string {
	return entryID + "|" + language
}

func (t Translation) Normalized() Translation {
	t.CreatedAt = t.CreatedAt.UTC()
	return t
}
