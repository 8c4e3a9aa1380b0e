package cards

import "strings"

// Fallback images used when a card carries no usable image URIs
const (
	DefaultArtworkURL = "https://c1.scryfall.com/file/scryfall-cards/art_crop/front/e/0/e094c67d-1384-43c0-8ad0-bf91d8d47803.jpg"
	DefaultPreviewURL = "https://c1.scryfall.com/file/scryfall-cards/normal/front/e/0/e094c67d-1384-43c0-8ad0-bf91d8d47803.jpg"
)

const commanderPhrase = "can be your commander"

// CanBeCommander reports whether a card may lead a Commander deck: a legendary
// creature, or a planeswalker whose rules text says it can be your commander.
func CanBeCommander(card *Card) bool {
	if card == nil {
		return false
	}
	typeLine := card.TypeLine
	if strings.Contains(typeLine, "Legendary") && strings.Contains(typeLine, "Creature") {
		return true
	}
	if !strings.Contains(typeLine, "Planeswalker") {
		return false
	}
	oracle := card.OracleText
	if oracle == "" && len(card.CardFaces) > 0 {
		oracle = card.CardFaces[0].OracleText
	}
	return strings.Contains(strings.ToLower(oracle), commanderPhrase)
}

// ArtworkURL returns the art crop, then the front face's art crop, then the default
func ArtworkURL(card *Card) string {
	return imageURL(card, DefaultArtworkURL, func(u *ImageURIs) string { return u.ArtCrop })
}

// PreviewURL returns the normal image, then the front face's normal image, then the default
func PreviewURL(card *Card) string {
	return imageURL(card, DefaultPreviewURL, func(u *ImageURIs) string { return u.Normal })
}

func imageURL(card *Card, fallback string, pick func(*ImageURIs) string) string {
	if card == nil {
		return fallback
	}
	if card.ImageURIs != nil {
		if u := pick(card.ImageURIs); u != "" {
			return u
		}
	}
	if len(card.CardFaces) > 0 && card.CardFaces[0].ImageURIs != nil {
		if u := pick(card.CardFaces[0].ImageURIs); u != "" {
			return u
		}
	}
	return fallback
}
