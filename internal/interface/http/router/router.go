// Package router 注册HTTP路由
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/xiebiao/booknerds/docs" // 注册Swagger文档
	"github.com/xiebiao/booknerds/internal/infrastructure/config"
	"github.com/xiebiao/booknerds/internal/interface/http/handler"
	"github.com/xiebiao/booknerds/internal/interface/http/middleware"
)

// New 创建Gin引擎并注册全部路由
//
// 公开接口：图书、书评查询与发表、注册、登录、管理员检查
// 管理员接口：/api/admin/* 以及 DELETE /api/reviews/:id，由BasicAuth校验
func New(
	logger *zap.Logger,
	cors config.CORSConfig,
	basicAuth *middleware.BasicAuth,
	accountHandler *handler.AccountHandler,
	reviewHandler *handler.ReviewHandler,
	bookHandler *handler.BookHandler,
) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.Logger(logger),
		middleware.CORS(cors),
		middleware.Tracing(),
		middleware.Metrics(),
	)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	requireAdmin := basicAuth.RequireAdmin()

	api := r.Group("/api")
	{
		books := api.Group("/books")
		{
			books.GET("/search", bookHandler.Search)
			books.GET("/top-rated", bookHandler.TopRated)
			books.GET("/most-recommended", bookHandler.MostRecommended)
			books.GET("/:id", bookHandler.Get)
		}

		api.POST("/login", accountHandler.Login)
		api.POST("/register", accountHandler.Register)
		api.POST("/users", accountHandler.Register) // 旧客户端使用的注册地址

		reviews := api.Group("/reviews")
		{
			reviews.GET("", reviewHandler.ListAll)
			reviews.GET("/book/:bookId", reviewHandler.ListByBook)
			reviews.GET("/user/:userId", reviewHandler.ListByUser)
			reviews.POST("", reviewHandler.Create)
			reviews.DELETE("/:id", requireAdmin, reviewHandler.Delete)
		}

		// 公开接口，前端用它决定是否显示管理入口
		api.GET("/admin/check", accountHandler.CheckAdmin)

		admin := api.Group("/admin")
		admin.Use(requireAdmin)
		{
			admin.GET("/users", accountHandler.ListUsers)
			admin.POST("/users", accountHandler.CreateUser)
			admin.PUT("/users/:id/role", accountHandler.ChangeRole)
			admin.DELETE("/users/:id", accountHandler.DeleteUser)
			admin.GET("/reviews", reviewHandler.ListAll)
		}
	}

	return r
}
