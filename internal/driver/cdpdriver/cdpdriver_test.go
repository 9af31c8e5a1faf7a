package cdpdriver

import (
	"testing"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"

	"github.com/themizzi/shopcheck/internal/locator"
)

func TestQuery(t *testing.T) {
	tests := []struct {
		name     string
		sel      locator.Selector
		expected string
	}{
		{
			name:     "css passes through",
			sel:      locator.Selector{Strategy: locator.StrategyCSS, Value: ".facet__menu-content"},
			expected: ".facet__menu-content",
		},
		{
			name:     "xpath passes through",
			sel:      locator.Selector{Strategy: locator.StrategyXPath, Value: "//button[text()='Filter']"},
			expected: "//button[text()='Filter']",
		},
		{
			name:     "id becomes an attribute selector",
			sel:      locator.Selector{Strategy: locator.StrategyID, Value: "main"},
			expected: `[id="main"]`,
		},
		{
			name:     "text becomes xpath",
			sel:      locator.Selector{Strategy: locator.StrategyText, Value: "PARFUM"},
			expected: `//*[contains(text(), 'PARFUM')]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, opts := query(tt.sel)
			assert.Equal(t, tt.expected, q)
			assert.Len(t, opts, 1)
		})
	}
}

func TestXPathLiteral(t *testing.T) {
	assert.Equal(t, `'Dior'`, xpathLiteral("Dior"))
	assert.Equal(t, `"L'Oréal"`, xpathLiteral("L'Oréal"))
	assert.Equal(t, `concat('a', "'", 'b"c')`, xpathLiteral(`a'b"c`))
}

func TestAllocatorOptions(t *testing.T) {
	base := len(chromedp.DefaultExecAllocatorOptions)

	plain := allocatorOptions(Options{Headless: true})
	withProfile := allocatorOptions(Options{Headless: true, Profile: "/tmp/profile", ExecPath: "/usr/bin/chromium"})

	assert.Greater(t, len(plain), base)
	assert.Equal(t, len(plain)+2, len(withProfile))
}
