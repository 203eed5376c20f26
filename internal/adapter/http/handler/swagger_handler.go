package handler

import (
	"net/url"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/andrewhigh08/audit-tracker/docs"
)

// General API information for swag.
// @title Audit Tracker API
// @version 1.0
// @description Operator accounts with admin approval and compliance audit execution.

// @contact.name API Support
// @contact.url https://github.com/andrewhigh08/audit-tracker

// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// RegisterSwagger serves Swagger UI at /swagger/index.html.
// RegisterSwagger обслуживает Swagger UI по адресу /swagger/index.html.
//
// The advertised host follows the public base URL so "Try it out" hits this deployment.
// Хост документации берётся из публичного адреса, чтобы "Try it out" вызывал это развёртывание.
func RegisterSwagger(router gin.IRoutes, publicBaseURL string) {
	if u, err := url.Parse(publicBaseURL); err == nil && u.Host != "" {
		docs.SwaggerInfo.Host = u.Host
		docs.SwaggerInfo.Schemes = []string{u.Scheme}
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.URL("/swagger/doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))
}
