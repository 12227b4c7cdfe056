// Package currency holds the currency catalog and rate snapshot types shared
// by the rate provider and its adapters.
package currency

// Info describes one supported currency.
type Info struct {
	Code   string `json:"code" yaml:"code" validate:"required,len=3,alpha,uppercase"`
	Name   string `json:"name" yaml:"name" validate:"required"`
	Symbol string `json:"symbol" yaml:"symbol" validate:"required"`
}
