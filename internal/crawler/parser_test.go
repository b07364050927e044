package crawler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-shopscraper/internal/config"
)

func testMarkers() config.MarkerConfig {
	return config.MarkerConfig{
		BaseURL:        "https://shopee.ph",
		CurrencySymbol: "₱",
		Carousel:       "carousel-arrow",
		LinkAttr:       "data-sqe",
		LinkValue:      "link",
		Name:           "qaNIZv",
		Category:       "JFOy4z",
		Price:          "_3n5NQx",
		Description:    "_2u0jt9",
		Thumbnail:      "ZPN9uD",
		Preview:        "_2JMB9h",
		StockText:      "piece available",
	}
}

const productHTML = `
<!DOCTYPE html>
<html>
<body>
	<div class="crumbs">
		<a class="JFOy4z">Shopee</a>
		<a class="JFOy4z">Home Appliances</a>
		<a class="JFOy4z">Fans</a>
	</div>
	<div class="qaNIZv"><span>Desk Fan 12"</span></div>
	<div class="_3n5NQx">₱1,299</div>
	<div class="_2u0jt9"><span> Quiet three speed fan. </span></div>
	<div class="stock"><div>25 piece available</div></div>
	<div class="_2JMB9h" style="background-image: url(&quot;https://cf.shopee.ph/file/abc&quot;); background-size: contain;"></div>
</body>
</html>
`

func TestParser_ParseProduct(t *testing.T) {
	p := NewParser(testMarkers())

	product, err := p.ParseProduct(productHTML, true)
	require.NoError(t, err)

	assert.Equal(t, `Desk Fan 12"`, product.Name)
	assert.Equal(t, "1299", product.Price)
	assert.Equal(t, "Quiet three speed fan.", product.Description)
	assert.Equal(t, "Home Appliances", product.Category)
	assert.Equal(t, "25", product.Quantity)
}

func TestParser_ParseProduct_SkipsCategory(t *testing.T) {
	p := NewParser(testMarkers())

	product, err := p.ParseProduct(productHTML, false)
	require.NoError(t, err)
	assert.Empty(t, product.Category)
}

func TestParser_ParseProduct_MissingElements(t *testing.T) {
	p := NewParser(testMarkers())

	tests := []struct {
		name   string
		html   string
		marker string
	}{
		{
			name:   "NoName",
			html:   `<div class="_3n5NQx">₱10</div>`,
			marker: "qaNIZv",
		},
		{
			name:   "NameWithoutSpan",
			html:   `<div class="qaNIZv">Fan</div>`,
			marker: "qaNIZv span",
		},
		{
			name:   "NoPrice",
			html:   `<div class="qaNIZv"><span>Fan</span></div>`,
			marker: "_3n5NQx",
		},
		{
			name: "NoStock",
			html: `<div class="qaNIZv"><span>Fan</span></div>
				<div class="_3n5NQx">₱10</div>
				<div class="_2u0jt9"><span>desc</span></div>`,
			marker: "piece available",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.ParseProduct(tt.html, false)
			var notFound *ElementNotFoundError
			require.ErrorAs(t, err, &notFound)
			assert.Equal(t, tt.marker, notFound.Marker)
		})
	}
}

func TestParser_ParseProduct_CategoryNeedsSecondCrumb(t *testing.T) {
	p := NewParser(testMarkers())
	html := `<a class="JFOy4z">Shopee</a>
		<div class="qaNIZv"><span>Fan</span></div>
		<div class="_3n5NQx">₱10</div>
		<div class="_2u0jt9"><span>desc</span></div>
		<div>3 piece available</div>`

	_, err := p.ParseProduct(html, true)
	var notFound *ElementNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "JFOy4z", notFound.Marker)

	product, err := p.ParseProduct(html, false)
	require.NoError(t, err)
	assert.Equal(t, "3", product.Quantity)
}

func TestParser_ProductURLs(t *testing.T) {
	p := NewParser(testMarkers())
	html := `
		<div class="grid">
			<a data-sqe="link" href="/Desk-Fan-i.1.2">Desk Fan</a>
			<a data-sqe="link" href="/Stand-Fan-i.1.3">Stand Fan</a>
			<a data-sqe="name" href="/ignored">Not a product</a>
			<a href="/about">About</a>
		</div>`

	links, err := p.ProductURLs(html)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://shopee.ph/Desk-Fan-i.1.2",
		"https://shopee.ph/Stand-Fan-i.1.3",
	}, links)
}

func TestParser_ProductURLs_AlwaysOnOrigin(t *testing.T) {
	p := NewParser(testMarkers())
	html := `
		<a data-sqe="link" href="/A-i.1.2">A</a>
		<a data-sqe="link" href="//cdn.other.com/B-i.1.3">B</a>
		<a data-sqe="link" href="https://evil.example/C-i.1.4">C</a>
		<a data-sqe="link" href="D-i.1.5">D</a>`

	links, err := p.ProductURLs(html)
	require.NoError(t, err)
	assert.Len(t, links, 4)
	for _, link := range links {
		assert.True(t, strings.HasPrefix(link, "https://shopee.ph/"), link)
	}
	assert.Equal(t, "https://shopee.ph/A-i.1.2", links[0])
	assert.Equal(t, "https://shopee.ph/D-i.1.5", links[3])
}

func TestParser_ProductURLs_MissingHref(t *testing.T) {
	p := NewParser(testMarkers())
	html := `<a data-sqe="link" href="/A-i.1.2">A</a><a data-sqe="link">no href</a>`

	_, err := p.ProductURLs(html)
	var notFound *ElementNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, `a[data-sqe="link"] href`, notFound.Marker)
}

func TestParser_ParseProduct_StockTextWithQuotes(t *testing.T) {
	markers := testMarkers()
	markers.StockText = `pc's "left"`
	p := NewParser(markers)
	html := `<div class="qaNIZv"><span>Fan</span></div>
		<div class="_3n5NQx">₱10</div>
		<div class="_2u0jt9"><span>desc</span></div>
		<div>7 pcs left</div>
		<div>4 pc's "left"</div>`

	product, err := p.ParseProduct(html, false)
	require.NoError(t, err)
	assert.Equal(t, "4", product.Quantity)
}

func TestXPathLiteral(t *testing.T) {
	assert.Equal(t, `'piece available'`, xpathLiteral("piece available"))
	assert.Equal(t, `"pc's"`, xpathLiteral("pc's"))
	assert.Equal(t, `concat('pc', "'", 's "left"')`, xpathLiteral(`pc's "left"`))
}

func TestParser_ProductURLs_Empty(t *testing.T) {
	p := NewParser(testMarkers())

	links, err := p.ProductURLs(`<html><body><p>No results</p></body></html>`)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestParser_PreviewImage(t *testing.T) {
	p := NewParser(testMarkers())

	url, found, err := p.PreviewImage(productHTML)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "https://cf.shopee.ph/file/abc", url)

	_, found, err = p.PreviewImage(`<div class="ZPN9uD"></div>`)
	require.NoError(t, err)
	assert.False(t, found)

	url, found, err = p.PreviewImage(`<div class="_2JMB9h"></div>`)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, url)
}

func TestCleanPrice(t *testing.T) {
	tests := map[string]string{
		"₱1,299":          "1299",
		"₱999":            "999",
		"₱1,000 - ₱2,500": "2500",
		"₱ 12,345,678":    "12345678",
		"450":             "450",
	}
	for in, want := range tests {
		assert.Equal(t, want, CleanPrice(in, "₱"), in)
	}
}

func TestQuantityFromText(t *testing.T) {
	q, ok := QuantityFromText("  25 piece available ")
	assert.True(t, ok)
	assert.Equal(t, "25", q)

	_, ok = QuantityFromText("   ")
	assert.False(t, ok)
}

func TestImageURLFromStyle(t *testing.T) {
	assert.Equal(t, "https://cf.shopee.ph/file/abc",
		ImageURLFromStyle(`background-image: url("https://cf.shopee.ph/file/abc"); background-size: contain;`))
	assert.Empty(t, ImageURLFromStyle(""))
	assert.Empty(t, ImageURLFromStyle("background-image:none"))
	assert.Empty(t, ImageURLFromStyle("background-image: none"))
}
