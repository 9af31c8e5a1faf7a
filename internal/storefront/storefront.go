package storefront

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"

	"go.uber.org/zap"
)

// ListingPath is where the perfume listing is served
const ListingPath = "/c/parfum/01"

// ConsentCookie is set by the consent banner once cookies are accepted
const ConsentCookie = "consent"

//go:embed templates/*.html
var templateFS embed.FS

// Section is a header navigation link
type Section struct {
	Name string
	Href string
}

// Sections are the header links; only PARFUM leads anywhere
var Sections = []Section{
	{Name: "NEU", Href: "#"},
	{Name: "MARKEN", Href: "#"},
	{Name: "PARFUM", Href: ListingPath},
	{Name: "MAKE-UP", Href: "#"},
	{Name: "PFLEGE", Href: "#"},
}

// LoadTemplates parses the page templates from dir, or the embedded ones when dir is empty
func LoadTemplates(dir string) (*template.Template, error) {
	if dir == "" {
		return template.ParseFS(templateFS, "templates/*.html")
	}
	tmpl, err := template.ParseGlob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates in %s: %w", dir, err)
	}
	return tmpl, nil
}

type page struct {
	Title         string
	Sections      []Section
	ShowConsent   bool
	ConsentCookie string
	ListingPath   string
}

func newPage(r *http.Request, title string) page {
	_, err := r.Cookie(ConsentCookie)
	return page{
		Title:         title,
		Sections:      Sections,
		ShowConsent:   err != nil,
		ConsentCookie: ConsentCookie,
		ListingPath:   ListingPath,
	}
}

// MainHandler handles the shop's landing page
type MainHandler struct {
	template *template.Template
	logger   *zap.Logger
}

// NewMainHandler creates a new MainHandler
func NewMainHandler(tmpl *template.Template, logger *zap.Logger) *MainHandler {
	return &MainHandler{template: tmpl, logger: logger}
}

// ServeHTTP handles the GET / request
func (h *MainHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.template.ExecuteTemplate(w, "main.html", newPage(r, "Willkommen")); err != nil {
		h.logger.Error("Failed to render main page", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}

type facetView struct {
	Name    string
	Options []optionView
}

type optionView struct {
	Value    string
	Count    int
	Selected bool
}

type listingPage struct {
	page
	Count    int
	Facets   []facetView
	Products []Product
}

// ListingHandler handles the product listing with its facet filters
type ListingHandler struct {
	template *template.Template
	catalog  *Catalog
	logger   *zap.Logger
}

// NewListingHandler creates a new ListingHandler
func NewListingHandler(tmpl *template.Template, catalog *Catalog, logger *zap.Logger) *ListingHandler {
	return &ListingHandler{template: tmpl, catalog: catalog, logger: logger}
}

// ServeHTTP handles the GET /c/parfum/01 request
func (h *ListingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sel := h.catalog.ParseSelection(r.URL.Query())
	products := h.catalog.Filter(sel)

	data := listingPage{
		page:     newPage(r, h.catalog.Title),
		Count:    len(products),
		Products: products,
	}
	for _, facet := range h.catalog.Facets {
		fv := facetView{Name: facet}
		for _, o := range h.catalog.Options(facet) {
			fv.Options = append(fv.Options, optionView{Value: o.Value, Count: o.Count, Selected: sel.Has(facet, o.Value)})
		}
		data.Facets = append(data.Facets, fv)
	}

	h.logger.Debug("Listing rendered", zap.Any("selection", sel), zap.Int("count", data.Count))
	if err := h.template.ExecuteTemplate(w, "listing.html", data); err != nil {
		h.logger.Error("Failed to render listing", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}

// NewHandler routes the landing page, the listing and a health check
func NewHandler(tmpl *template.Template, catalog *Catalog, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("storefront")

	mux := http.NewServeMux()
	mux.Handle("/", NewMainHandler(tmpl, logger))
	mux.Handle(ListingPath, NewListingHandler(tmpl, catalog, logger))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// New builds the storefront handler from the embedded catalog and templates
func New(logger *zap.Logger) (http.Handler, error) {
	catalog, err := DefaultCatalog()
	if err != nil {
		return nil, err
	}
	tmpl, err := LoadTemplates("")
	if err != nil {
		return nil, err
	}
	return NewHandler(tmpl, catalog, logger), nil
}
