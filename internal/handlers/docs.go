package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// swaggerUIVersion pins the swagger-ui-dist assets loaded by the docs page.
const swaggerUIVersion = "5.17.14"

const swaggerUIPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>TaskFlow API Documentation</title>
<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@` + swaggerUIVersion + `/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@` + swaggerUIVersion + `/swagger-ui-bundle.js"></script>
<script src="/api-docs/init.js"></script>
</body>
</html>
`

const swaggerUIInit = `window.ui = SwaggerUIBundle({
  url: "/api-docs.json",
  dom_id: "#swagger-ui",
  persistAuthorization: true,
  displayRequestDuration: true,
  filter: true,
  tryItOutEnabled: true
});
`

// docsPolicy relaxes the API's content security policy for the docs page.
const docsPolicy = "default-src 'none'; script-src 'self' https://unpkg.com; style-src https://unpkg.com; " +
	"img-src 'self' data: https://unpkg.com; connect-src 'self'; frame-ancestors 'none'"

// DocsHandler serves the OpenAPI document and a Swagger UI page for it.
type DocsHandler struct {
	spec []byte
}

func NewDocsHandler(spec []byte) *DocsHandler {
	return &DocsHandler{spec: spec}
}

// Spec serves the raw OpenAPI JSON.
func (h *DocsHandler) Spec(c *gin.Context) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", h.spec)
}

// UI serves the interactive documentation page.
func (h *DocsHandler) UI(c *gin.Context) {
	c.Header("Content-Security-Policy", docsPolicy)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerUIPage))
}

// UIInit serves the script that boots Swagger UI against Spec.
func (h *DocsHandler) UIInit(c *gin.Context) {
	c.Data(http.StatusOK, "application/javascript; charset=utf-8", []byte(swaggerUIInit))
}
