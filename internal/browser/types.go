// Package browser оборачивает playwright и управляет пулом сессий воркеров.
// Адаптеры порталов видят только интерфейсы Page и Element.
package browser

import (
	"context"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Page — операции над страницей, доступные движку заполнения.
type Page interface {
	Navigate(ctx context.Context, url string) error
	CurrentURL() string
	WaitForSelector(ctx context.Context, selector string) error
	WaitForLoadState(ctx context.Context, state string) error
	Query(selector string) Element
	QueryAll(selector string) []Element
	RemoveFocus()
	AcceptCookieConsent(ctx context.Context)
}

type PlaywrightBrowser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	cfg     Config

	mu sync.RWMutex
}

type Config struct {
	Headless        bool
	UserDataDir     string
	BrowsersPath    string
	Display         string
	Timeout         time.Duration
	NavigateTimeout time.Duration
	ActionTimeout   time.Duration
}
