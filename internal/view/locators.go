package view

import "github.com/themizzi/shopcheck/internal/locator"

// MainLocators are the elements shared by every page of the shop
var MainLocators = struct {
	AcceptCookies locator.Locator
	Section       locator.Locator
}{
	AcceptCookies: locator.CSS("button.uc-list-button__accept-all"),
	Section:       locator.XPath("//div[contains(@class,'header-component')]//a[contains(text(),'{name}')]"),
}

var searchOption = locator.XPath("//div[contains(@class,'facet-option')]//div[text()[contains(., '{name}')]]")

var filterMenu = locator.CSS(".facet__menu-content")

var product = locator.CSS("div.product-grid-column")

// ProductLocators are the elements of the product listing
var ProductLocators = struct {
	Filter               locator.Locator
	FilterMenu           locator.Locator
	SearchField          locator.Locator
	SearchOption         locator.Locator
	SelectSearchOption   locator.Locator
	SearchOptionSelected locator.Locator
	ConfirmSearch        locator.Locator
	FilterButton         locator.Locator
	TotalProducts        locator.Locator
	Product              locator.Locator
	ProductName          locator.Locator
	ProductPrice         locator.Locator
	SearchPage           locator.Locator
}{
	Filter:               locator.XPath("//div[contains(@class,'facet')]//*[contains(text(),'{name}')]"),
	FilterMenu:           filterMenu,
	SearchField:          locator.CSS("[name='facet-search']"),
	SearchOption:         searchOption,
	SelectSearchOption:   searchOption.Extend("/../..//*[@class='facet-option__checkbox']"),
	SearchOptionSelected: searchOption.Extend("/../..//*[contains(@class,'facet-option__checkbox--selected')]"),
	ConfirmSearch:        filterMenu.Extend(" button[class*=close-button]"),
	FilterButton:         locator.XPath("//button[text()='Filter']"),
	TotalProducts:        locator.CSS("div.product-overview__headline-wrapper"),
	Product:              product,
	ProductName:          product.Extend(" .product-info .name"),
	ProductPrice:         product.Extend(" .product-info .price-row"),
	SearchPage:           locator.CSS("[data-testid='pagination-title-dropdown']"),
}
