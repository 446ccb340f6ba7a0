// Package docs provides generated OpenAPI documentation.
//
// pdfa11y API
//
//	@title			pdfa11y API
//	@version		1.0
//	@description	PDF accessibility audit API: upload a document, review WCAG 2.1 issues, apply automatic fixes and download the result.
//	@termsOfService	http://swagger.io/terms/
//
//	@contact.name	API Support
//	@contact.url	https://github.com/jackzampolin/pdfa11y
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g doc.go -d ./,../internal/server/endpoints,../internal/audit -o ./swagger --parseDependency --parseInternal --outputTypes go
