package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dafibh/fintrack/fintrack-backend/docs"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

// OpenAPI3Spec is the subset of an OpenAPI 3.0 document produced from the swag output
type OpenAPI3Spec struct {
	OpenAPI    string                 `json:"openapi"`
	Info       map[string]interface{} `json:"info"`
	Servers    []Server               `json:"servers"`
	Paths      map[string]interface{} `json:"paths"`
	Components map[string]interface{} `json:"components,omitempty"`
}

// Server is an OpenAPI 3.0 server entry
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// DocsHandler serves the generated API documentation
type DocsHandler struct {
	servers []Server
}

// NewDocsHandler creates a DocsHandler listing the local server and, when set, publicURL
func NewDocsHandler(port, publicURL string) *DocsHandler {
	servers := []Server{{URL: "http://localhost:" + port + "/api", Description: "Local"}}
	if publicURL != "" {
		servers = append(servers, Server{URL: strings.TrimSuffix(publicURL, "/") + "/api", Description: "Public"})
	}
	return &DocsHandler{servers: servers}
}

const (
	swagger2Ref = "#/definitions/"
	openAPI3Ref = "#/components/schemas/"
)

var schemaFields = []string{"type", "format", "enum", "default", "minimum", "maximum", "items"}

// convert walks a swagger 2.0 fragment, rewriting definition refs and moving
// non-body parameter type fields under "schema"
func convert(node interface{}) interface{} {
	switch v := node.(type) {
	case []interface{}:
		out := make([]interface{}, len(v))
		for i := range v {
			out[i] = convert(v[i])
		}
		return out
	case map[string]interface{}:
		if isParameter(v) {
			return convertParameter(v)
		}
		out := make(map[string]interface{}, len(v))
		for k, val := range v {
			if ref, ok := val.(string); ok && k == "$ref" {
				out[k] = strings.Replace(ref, swagger2Ref, openAPI3Ref, 1)
				continue
			}
			out[k] = convert(val)
		}
		return out
	}
	return node
}

func isParameter(m map[string]interface{}) bool {
	_, hasIn := m["in"]
	_, hasName := m["name"]
	return hasIn && hasName
}

func convertParameter(param map[string]interface{}) map[string]interface{} {
	// body parameters have no OpenAPI 3.0 parameter form; swagger UI still renders them
	if param["in"] == "body" {
		return param
	}

	out := make(map[string]interface{})
	for _, k := range []string{"name", "in", "description", "required"} {
		if val, ok := param[k]; ok {
			out[k] = val
		}
	}
	schema := make(map[string]interface{})
	for _, k := range schemaFields {
		if val, ok := param[k]; ok {
			schema[k] = convert(val)
		}
	}
	if len(schema) > 0 {
		out["schema"] = schema
	}
	return out
}

// ServeOpenAPI3Spec serves the swagger spec converted to OpenAPI 3.0
func (h *DocsHandler) ServeOpenAPI3Spec(c echo.Context) error {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		return NewInternalError(c, "Failed to read swagger doc")
	}

	var swagger2 map[string]interface{}
	if err := json.Unmarshal([]byte(doc), &swagger2); err != nil {
		return NewInternalError(c, "Failed to parse swagger doc")
	}

	info, _ := swagger2["info"].(map[string]interface{})
	paths, _ := swagger2["paths"].(map[string]interface{})

	components := make(map[string]interface{})
	if definitions, ok := swagger2["definitions"].(map[string]interface{}); ok {
		components["schemas"] = convert(definitions)
	}

	converted, _ := convert(paths).(map[string]interface{})
	return c.JSON(http.StatusOK, OpenAPI3Spec{
		OpenAPI:    "3.0.3",
		Info:       info,
		Servers:    h.servers,
		Paths:      converted,
		Components: components,
	})
}
