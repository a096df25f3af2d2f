package handlers

import (
	"net/http"
	"regexp"

	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/cmd/docs"
	portssvc "github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/core/ports/services"
	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var (
	cnicRegexp    = regexp.MustCompile(`^\d{5}-\d{7}-\d$`)
	mobileRegexp  = regexp.MustCompile(`^(\+92|0092|92|0)?3[0-9]{9}$`)
	acctNumRegexp = regexp.MustCompile(`^\d{8,24}$`)
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	paymentService portssvc.PaymentSvcFacade,
	protector portssvc.PIIProtector,
) {
	registerCustomValidators()

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	v1 := r.Group("/api/v1")
	registerTransactionRoutes(v1, paymentService, protector)

	setupSwaggerRoutes(r, cfg)
}

// registerCustomValidators adds the domain shape validators used by the
// binding tags on request DTOs.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("cnic", func(fl validator.FieldLevel) bool {
		return cnicRegexp.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("pkmobile", func(fl validator.FieldLevel) bool {
		return mobileRegexp.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("acctnum", func(fl validator.FieldLevel) bool {
		return acctNumRegexp.MatchString(fl.Field().String())
	})
}

// setupSwaggerRoutes configures the swagger documentation routes.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
