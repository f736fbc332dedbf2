// Package docs serves the OpenAPI document of the society API.
//
// swagger.json follows the godoc annotations on the HTTP handlers.
// Regenerate it after changing a route:
//
//	swag init -g cmd/server/main.go -o docs --ot json --parseInternal
package docs

import (
	_ "embed"

	"github.com/swaggo/swag/v2"
)

//go:embed swagger.json
var docTemplate string

// SwaggerInfo holds the document metadata rendered into swagger.json
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "SocietyHub API",
	Description:      "Multi-tenant housing society backend. Every society is served from its own database.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
