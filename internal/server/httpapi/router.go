package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/usersapi/internal/common"
	"github.com/gin-gonic/gin"
)

const homePage = "<h1>Hello You</h1>"

// NewRouter builds the gin engine with middleware and all routes. Routes are
// public unless mounted behind Gate.
func NewRouter(d Deps) *gin.Engine {
	engine := gin.New()
	engine.Use(Recovery(d.Log), RequestID(), RequestLogger(d.Log))
	if d.MaxUploadSize > 0 {
		engine.MaxMultipartMemory = d.MaxUploadSize
	}

	gate := Gate(d.Tokens, d.Users)
	uh := &userHandlers{users: d.Users}
	ah := &adminHandlers{admin: d.Admin}
	fh := &fileHandlers{files: d.Files, maxUploadSize: d.MaxUploadSize}

	engine.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(homePage))
	})
	engine.GET("/health", healthHandler(d.Health))

	engine.POST("/userlogin", uh.login)

	users := engine.Group("/users")
	users.POST("/newuser", uh.signup)

	me := users.Group("/myuser", gate)
	me.GET("", uh.me)
	me.PUT("", uh.updateMe)
	me.DELETE("", uh.deleteMe)
	me.PUT("/changepassword", uh.changePassword)

	admin := engine.Group("/admin", gate, RequireRole(common.UserTypeAdmin))
	admin.GET("/allusers", ah.list)
	admin.GET("/getuser/email/:email", ah.getByEmail)
	admin.GET("/getuser/:id", ah.getByID)
	admin.DELETE("/deluser/:id", ah.deleteByID)

	files := engine.Group("/uploadFile", gate)
	files.POST("/", fh.upload)
	files.POST("/presign", fh.presign)

	return engine
}

type healthResponse struct {
	Status string `json:"status"`
}

func healthHandler(check HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			if err := check(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, healthResponse{Status: "unhealthy"})
				return
			}
		}
		c.JSON(http.StatusOK, healthResponse{Status: "healthy"})
	}
}
