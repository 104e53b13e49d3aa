// @title Portfolio 后端 API
// @version 1.0
// @description 个人作品集与学习平台的后端服务器：博客、课程、练习提交与学习进度。
// @termsOfService http://swagger.io/terms/

// @contact.name API支持
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"portfolio_backend/internal/app"
	"portfolio_backend/internal/config"
	"portfolio_backend/pkg/logger"
)

func main() {
	flagMigrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	flagMigrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	cfg.ForceMigrate = *flagMigrate || *flagMigrateOnly
	cfg.MigrateOnly = *flagMigrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 迁移模式不起服务，迁移在 NewApp 里完成
	if cfg.MigrateOnly {
		log.Println("数据库迁移完成，退出程序")
		return
	}

	application.Run()
}
