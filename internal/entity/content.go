package entity

import (
	"encoding/json"
	"errors"
)

// ErrItemNotFound: o CMS não tem (ou não mostra para este token) o item pedido.
var ErrItemNotFound = errors.New("item not found")

type Category struct {
	ID               int    `json:"id"`
	Title            string `json:"Title"`
	Slug             string `json:"slug"`
	ShortDescription string `json:"short_description"`
	FeaturedImage    string `json:"Featured_image"`
}

type Subcategory struct {
	ID               int    `json:"id"`
	Title            string `json:"title"`
	Slug             string `json:"slug"`
	ShortDescription string `json:"short_description"`
	FeaturedImage    string `json:"featured_image"`
	CategoryID       int    `json:"category_id"`
}

// ProductFile é a junção M2M Products <-> directus_files, já expandida.
type ProductFile struct {
	ID        int    `json:"id,omitempty"`
	ProductID int    `json:"Products_id,omitempty"`
	FileID    string `json:"directus_files_id"`
}

type Product struct {
	ID            int           `json:"id"`
	Title         string        `json:"Title"`
	Slug          string        `json:"slug"`
	Description   string        `json:"description"`
	FeaturedImage []ProductFile `json:"Featured_image"`
	SubCategory   int           `json:"sub_category"`
}

type Article struct {
	ID            int             `json:"id"`
	Title         string          `json:"title"`
	Slug          string          `json:"slug"`
	Excerpt       string          `json:"excerpt"`
	Content       string          `json:"content"`
	DateCreated   string          `json:"date_created"`
	FeaturedImage string          `json:"Featured_image"`
	Topic         json.RawMessage `json:"topic,omitempty"` // M2A, formato varia
}

type FeaturedNews struct {
	ID            int `json:"id"`
	NewsToFeature int `json:"News_to_feature"`
}

type CatalogueItem struct {
	ID     int     `json:"id"`
	Status string  `json:"status"`
	Sort   *int    `json:"sort"`
	Title  string  `json:"title"`
	Image  *string `json:"image"`
}

type AboutUsContent struct {
	ID                    int    `json:"id"`
	CompanyDescription    string `json:"company_description"`
	MissionStatement      string `json:"mission_statement"`
	Value                 string `json:"value"`
	HighlightTitle        string `json:"highlight_title"`
	HighlightDescription  string `json:"highlight_description"`
	HighlightImage        string `json:"highlight_image"`
	HighlightTitle2       string `json:"highlight_title_2"`
	HighlightDescription2 string `json:"highlight_description_2"`
	HighlightImage2       string `json:"highlight_image_2"`
	HighlightTitle3       string `json:"highlight_title_3"`
	HighlightDescription3 string `json:"highlight_description_3"`
	HighlightImage3       string `json:"highlight_image_3"`
	CompanyImage          string `json:"company_image"`
}

type Award struct {
	ID     int    `json:"id"`
	Status string `json:"status"`
	Sort   *int   `json:"sort"`
	Title  string `json:"title"`
	Image  string `json:"image"`
}

type Certificate struct {
	ID     int     `json:"id"`
	Status string  `json:"status"`
	Sort   *int    `json:"sort"`
	Title  string  `json:"title"`
	Image  *string `json:"image"`
}

// AboutPage agrega as três coleções da página "Sobre".
type AboutPage struct {
	Content      *AboutUsContent `json:"content"`
	Awards       []Award         `json:"awards"`
	Certificates []Certificate   `json:"certificates"`
}

type Stats struct {
	Products int `json:"products"`
	Articles int `json:"articles"`
}
