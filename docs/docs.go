// Package docs registers the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/tripdesk/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/currency/supported": {
            "get": {
                "produces": ["application/json"],
                "tags": ["currency"],
                "summary": "List supported currencies",
                "responses": {
                    "200": {"description": "Supported currencies", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/currency/rates": {
            "get": {
                "produces": ["application/json"],
                "tags": ["currency"],
                "summary": "Get exchange rates",
                "parameters": [
                    {"type": "string", "example": "EUR", "description": "Base currency code", "name": "base", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Rate snapshot", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "400": {"description": "Unknown base currency", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/currency/convert": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["currency"],
                "summary": "Convert an amount",
                "parameters": [
                    {"description": "Conversion request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ConvertRequest"}}
                ],
                "responses": {
                    "200": {"description": "Conversion result", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "400": {"description": "Missing field or unsupported currency", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/currency/rate/{from}/{to}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["currency"],
                "summary": "Get an exchange rate",
                "parameters": [
                    {"type": "string", "description": "Source currency code", "name": "from", "in": "path", "required": true},
                    {"type": "string", "description": "Target currency code", "name": "to", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Exchange rate", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "400": {"description": "Unsupported currency", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/currency/refresh": {
            "post": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["currency"],
                "summary": "Refresh exchange rates",
                "responses": {
                    "200": {"description": "Exchange rates refreshed", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "403": {"description": "Forbidden - Requires admin role", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/currency/info/{code}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["currency"],
                "summary": "Get currency details",
                "parameters": [
                    {"type": "string", "description": "Currency code", "name": "code", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Currency details", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "404": {"description": "Currency not found", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/currency/format": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["currency"],
                "summary": "Format an amount",
                "parameters": [
                    {"description": "Format request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.FormatRequest"}}
                ],
                "responses": {
                    "200": {"description": "Formatted amount", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "400": {"description": "Missing field", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/currency/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["currency"],
                "summary": "Get rate cache status",
                "responses": {
                    "200": {"description": "Cache status", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.ConvertRequest": {
            "type": "object",
            "required": ["amount", "fromCurrency", "toCurrency"],
            "properties": {
                "amount": {"type": "number", "example": 250},
                "fromCurrency": {"type": "string", "example": "EUR"},
                "toCurrency": {"type": "string", "example": "GBP"}
            }
        },
        "handlers.FormatRequest": {
            "type": "object",
            "required": ["amount", "currencyCode"],
            "properties": {
                "amount": {"type": "number", "example": 1234.5},
                "currencyCode": {"type": "string", "example": "USD"}
            }
        },
        "utils.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/utils.ErrorInfo"},
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "utils.ErrorInfo": {
            "type": "object",
            "properties": {
                "details": {"type": "string"},
                "message": {"type": "string"},
                "type": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "Bearer": {
            "description": "Type \"Bearer\" followed by a space and the operator JWT.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Tripdesk Currency API",
	Description:      "Currency rate cache and conversion service for the travel agency back office.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
