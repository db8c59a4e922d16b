// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"molviz-go/internal/config"
	"molviz-go/internal/handler"
	"molviz-go/internal/middleware"
	"molviz-go/internal/model"
	"molviz-go/internal/repository"
	"molviz-go/internal/service"
	"molviz-go/pkg/llm"
	"molviz-go/pkg/log"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化存储并写入内置分子。存储是进程内的，重启后状态丢失。
	store := repository.NewMemoryStore()
	seedMolecules(store)

	// 4. 初始化 Service (依赖注入)
	llmClient := llm.NewClient(cfg.LLM)
	moleculeService := service.NewMoleculeService(store)
	chatService := service.NewChatService(store, llmClient)

	// 5. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), middleware.Metrics(), gin.Recovery())

	// 6. 注册路由
	moleculeHandler := handler.NewMoleculeHandler(moleculeService)
	chatHandler := handler.NewChatHandler(chatService)
	viewerHandler := handler.NewViewerHandler(store, cfg.Viewer)

	api := r.Group("/api")
	{
		molecules := api.Group("/molecules")
		{
			molecules.POST("", moleculeHandler.Create)
			molecules.GET("/:id", moleculeHandler.Get)
			molecules.GET("/name/:name", moleculeHandler.GetByName)
		}

		chat := api.Group("/chat")
		{
			chat.POST("", chatHandler.Ask)
			chat.GET("/:moleculeId", chatHandler.History)
		}

		api.GET("/viewer/:moleculeId", viewerHandler.Handle)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}
	log.Info("服务已优雅关闭")
}

// seedMolecules 把内置分子集合写入存储（water 得到 id 1，methane 得到 id 2）。
func seedMolecules(store repository.Store) {
	for _, spec := range model.PredefinedMolecules {
		mol := store.CreateMolecule(spec)
		log.Infof("内置分子已加载: %s (%s), id=%d", mol.Name, mol.Formula, mol.ID)
	}
}
