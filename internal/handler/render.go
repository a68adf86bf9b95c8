package handler

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"url-shortener-web/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// bannerHideAfterMs mirrors the snackbar auto-hide of the client
const bannerHideAfterMs = 6000

// IndexPageData is the template data for the submission view
type IndexPageData struct {
	Status          domain.Status
	ShortURL        string
	BannerHideAfter int
}

// ResolvePageData is the template data for the resolve view
type ResolvePageData struct {
	Status          domain.Status
	RefreshSeconds  int  // 0 means no scheduled return to root
	Recovering      bool // A return to root is scheduled
	BannerHideAfter int
}

// loadTemplates parses the embedded page templates
func loadTemplates() (*template.Template, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// staticFileSystem exposes the embedded assets without the static/ prefix
func staticFileSystem() (http.FileSystem, error) {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static sub-FS: %w", err)
	}
	return http.FS(sub), nil
}
