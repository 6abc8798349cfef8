package domain

import (
	"strconv"
	"strings"
	"time"

	apperrors "github.com/0311869uaslp-a11y/Market-pro/pkg/errors"
)

// DefaultBrandName is used when a product is created without a brand.
const DefaultBrandName = "Generic Brand"

// Placeholders are substituted for missing product and brand media.
type Placeholders struct {
	ProductImageURL string
	BrandLogoURL    string
}

// Normalizer turns request payloads into stored product fields.
type Normalizer struct {
	Placeholders Placeholders
	Now          func() time.Time
}

// NewNormalizer returns a Normalizer using the wall clock.
func NewNormalizer(p Placeholders) *Normalizer {
	return &Normalizer{Placeholders: p, Now: time.Now}
}

func (n *Normalizer) stamp() string {
	return strconv.FormatInt(n.Now().UnixMilli(), 10)
}

// acceptedImage reports whether u is an absolute URL or inline data.
func acceptedImage(u string) bool {
	return strings.HasPrefix(u, "http") || strings.HasPrefix(u, "data:")
}

// Images keeps the accepted URLs in order, assigning each a public ID.
func (n *Normalizer) Images(urls []string) []Image {
	ts := n.stamp()
	images := make([]Image, 0, len(urls))
	for i, u := range urls {
		if u == "" || !acceptedImage(u) {
			continue
		}
		images = append(images, Image{PublicID: "product_" + ts + "_" + strconv.Itoa(i), URL: u})
	}
	return images
}

// DefaultImage is the single placeholder stored for a product created
// without any usable image.
func (n *Normalizer) DefaultImage() Image {
	return Image{PublicID: "default_product_" + n.stamp(), URL: n.Placeholders.ProductImageURL}
}

// DefaultLogo is the placeholder brand logo.
func (n *Normalizer) DefaultLogo() Image {
	return Image{PublicID: "brand_" + n.stamp(), URL: n.Placeholders.BrandLogoURL}
}

func (n *Normalizer) logo(u string) Image {
	return Image{PublicID: "brand_" + n.stamp(), URL: u}
}

func absoluteLogo(s *string) bool {
	return s != nil && strings.HasPrefix(*s, "http")
}

// NewProduct builds a product from a create request. The required fields
// are checked in order name, description, price, category, stock, and the
// first one that is absent or falsy is reported.
func (n *Normalizer) NewProduct(in ProductInput, actor string) (*Product, error) {
	switch {
	case value(in.Name) == "":
		return nil, apperrors.MissingField("name")
	case value(in.Description) == "":
		return nil, apperrors.MissingField("description")
	case !in.Price.truthy():
		return nil, apperrors.MissingField("price")
	case value(in.Category) == "":
		return nil, apperrors.MissingField("category")
	case !in.Stock.truthy():
		return nil, apperrors.MissingField("stock")
	}

	p := &Product{
		Name:        *in.Name,
		Description: *in.Description,
		Price:       in.Price.Value,
		CuttedPrice: in.Price.Value,
		Category:    *in.Category,
		Stock:       in.Stock.Int(),
		User:        actor,
		Reviews:     []Review{},
	}
	if in.CuttedPrice != nil && in.CuttedPrice.Truthy {
		p.CuttedPrice = in.CuttedPrice.Value
	}

	if in.Images != nil {
		p.Images = n.Images(*in.Images)
	}
	if len(p.Images) == 0 {
		p.Images = []Image{n.DefaultImage()}
	}

	p.Brand = Brand{Name: DefaultBrandName, Logo: n.DefaultLogo()}
	if name := value(in.BrandName); name != "" {
		p.Brand.Name = name
	}
	if absoluteLogo(in.Logo) {
		p.Brand.Logo = n.logo(*in.Logo)
	}

	p.Specifications = []Specification{}
	if in.Specifications != nil && in.Specifications.IsArray {
		p.Specifications = in.Specifications.Specifications()
	}
	return p, nil
}

// ApplyUpdate merges a partial update into p and stamps actor as the last
// modifier. Derived fields and reviews are never touched.
//
// Price and stock are applied only when truthy, so an explicit 0 is
// ignored. Images are replaced only when at least one URL is accepted.
func (n *Normalizer) ApplyUpdate(p *Product, in ProductInput, actor string) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.CuttedPrice != nil {
		p.CuttedPrice = in.CuttedPrice.Value
	}

	if in.Images != nil {
		if images := n.Images(*in.Images); len(images) > 0 {
			p.Images = images
		}
	}

	switch {
	case absoluteLogo(in.Logo):
		name := value(in.BrandName)
		if name == "" {
			name = p.Brand.Name
		}
		if name == "" {
			name = DefaultBrandName
		}
		p.Brand = Brand{Name: name, Logo: n.logo(*in.Logo)}
	case value(in.BrandName) != "":
		logo := p.Brand.Logo
		if logo.URL == "" {
			logo = n.DefaultLogo()
		}
		p.Brand = Brand{Name: *in.BrandName, Logo: logo}
	}

	if in.Specifications != nil && in.Specifications.IsArray {
		p.Specifications = in.Specifications.Specifications()
	}

	if in.Price.truthy() {
		p.Price = in.Price.Value
	}
	if in.Stock.truthy() {
		p.Stock = in.Stock.Int()
	}
	p.User = actor
}
