package crawler

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"go-shopscraper/internal/config"
	"go-shopscraper/pkg/models"
)

// Parser pulls product fields out of rendered page source.
type Parser struct {
	markers config.MarkerConfig
}

func NewParser(markers config.MarkerConfig) *Parser {
	return &Parser{markers: markers}
}

type document struct {
	root  *html.Node
	query *goquery.Document
}

func parseDocument(source string) (*document, error) {
	root, err := htmlquery.Parse(strings.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &document{root: root, query: goquery.NewDocumentFromNode(root)}, nil
}

func (d *document) class(name string) *goquery.Selection {
	return d.query.Find(classSelector(name))
}

// ProductURLs prefixes the href of every product link on a category page
// with the site origin. Every link must carry an href.
func (p *Parser) ProductURLs(source string) ([]string, error) {
	doc, err := parseDocument(source)
	if err != nil {
		return nil, err
	}

	selector := fmt.Sprintf(`a[%s=%q]`, p.markers.LinkAttr, p.markers.LinkValue)
	anchors := doc.query.Find(selector)
	links := make([]string, 0, anchors.Length())
	for i := range anchors.Nodes {
		href, ok := anchors.Eq(i).Attr("href")
		if !ok {
			return nil, &ElementNotFoundError{Marker: selector + " href"}
		}
		links = append(links, originURL(p.markers.BaseURL, href))
	}
	return links, nil
}

// ParseProduct extracts the text fields of a product page. Every field must be
// present; the category is only read when includeCategory is set.
func (p *Parser) ParseProduct(source string, includeCategory bool) (models.Product, error) {
	var product models.Product

	doc, err := parseDocument(source)
	if err != nil {
		return product, err
	}

	if product.Name, err = firstSpanText(doc, p.markers.Name); err != nil {
		return product, err
	}

	price := doc.class(p.markers.Price).First()
	if price.Length() == 0 {
		return product, &ElementNotFoundError{Marker: p.markers.Price}
	}
	product.Price = CleanPrice(price.Text(), p.markers.CurrencySymbol)

	if product.Description, err = firstSpanText(doc, p.markers.Description); err != nil {
		return product, err
	}

	if includeCategory {
		// The first match is the site root in the breadcrumb.
		category := doc.class(p.markers.Category).Eq(1)
		if category.Length() == 0 {
			return product, &ElementNotFoundError{Marker: p.markers.Category}
		}
		product.Category = strings.TrimSpace(category.Text())
	}

	stock, err := findTextNode(doc.root, "div", p.markers.StockText)
	if err != nil {
		return product, err
	}
	quantity, ok := QuantityFromText(htmlquery.InnerText(stock))
	if !ok {
		return product, &ElementNotFoundError{Marker: p.markers.StockText}
	}
	product.Quantity = quantity

	return product, nil
}

// PreviewImage looks for the full-size preview element. found is false when
// the preview has not rendered; the URL is empty when it has no usable style.
func (p *Parser) PreviewImage(source string) (imageURL string, found bool, err error) {
	doc, err := parseDocument(source)
	if err != nil {
		return "", false, err
	}
	preview := doc.class(p.markers.Preview).First()
	if preview.Length() == 0 {
		return "", false, nil
	}
	style, _ := preview.Attr("style")
	return ImageURLFromStyle(style), true, nil
}

// CleanPrice keeps what follows the last currency symbol, without thousands
// separators: "₱1,299" becomes "1299".
func CleanPrice(text, symbol string) string {
	parts := strings.Split(text, symbol)
	return strings.ReplaceAll(strings.TrimSpace(parts[len(parts)-1]), ",", "")
}

// QuantityFromText returns the leading token of a stock line such as
// "25 piece available".
func QuantityFromText(text string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}

// ImageURLFromStyle reads the quoted url(...) out of an inline style of the
// form `background-image: url("https://...")`.
func ImageURLFromStyle(style string) string {
	words := strings.Split(style, " ")
	if len(words) < 2 {
		return ""
	}
	quoted := strings.Split(words[1], `"`)
	if len(quoted) < 2 {
		return ""
	}
	return quoted[1]
}

func firstSpanText(doc *document, marker string) (string, error) {
	el := doc.class(marker).First()
	if el.Length() == 0 {
		return "", &ElementNotFoundError{Marker: marker}
	}
	span := el.Find("span").First()
	if span.Length() == 0 {
		return "", &ElementNotFoundError{Marker: marker + " span"}
	}
	return strings.TrimSpace(span.Text()), nil
}

func findTextNode(root *html.Node, tag, text string) (*html.Node, error) {
	expr := fmt.Sprintf(`//%s[contains(text(),%s)]`, tag, xpathLiteral(text))
	node, err := htmlquery.Query(root, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath %s: %w", expr, err)
	}
	if node == nil {
		return nil, &ElementNotFoundError{Marker: text}
	}
	return node, nil
}

// xpathLiteral quotes s for XPath 1.0, which has no escape sequences.
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, len(parts))
	for i, part := range parts {
		quoted[i] = "'" + part + "'"
	}
	return "concat(" + strings.Join(quoted, `, "'", `) + ")"
}

// originURL appends href to the site origin as a path, so the result always
// starts with origin even when href is itself absolute.
func originURL(origin, href string) string {
	origin = strings.TrimRight(origin, "/")
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return origin + href
}

func classSelector(class string) string {
	return "." + class
}
