package main

import (
	"github.com/minishop/internal/config"
	"github.com/minishop/internal/logger"
	"github.com/minishop/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	db, err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	})
	if err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(db); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 默认管理员
	if err := models.InitDefaultAdmin(db, "admin", "admin@example.com", "admin123456"); err != nil {
		stdLog.Fatalf("Failed to seed admin: %v", err)
	}

	// 演示顾客账号
	customerHash, err := bcrypt.GenerateFromPassword([]byte("customer123"), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Fatalf("Failed to hash customer password: %v", err)
	}
	customer := models.User{
		Username:     "customer",
		Email:        "customer@example.com",
		PasswordHash: string(customerHash),
	}
	if err := db.Where("username = ?", customer.Username).FirstOrCreate(&customer).Error; err != nil {
		stdLog.Fatalf("Failed to seed customer: %v", err)
	}

	// 演示商品
	products := []models.Product{
		{Name: "无线蓝牙耳机", Description: "半入耳式，支持主动降噪，续航 30 小时", Price: money("199.00"), Stock: 120},
		{Name: "机械键盘 87 键", Description: "热插拔轴体，PBT 键帽，Type-C 接口", Price: money("349.00"), Stock: 60},
		{Name: "便携咖啡杯", Description: "316 不锈钢内胆，480ml，保温 8 小时", Price: money("89.00"), Stock: 200},
		{Name: "桌面升降支架", Description: "铝合金材质，承重 10kg，高度无级调节", Price: money("159.00"), Stock: 45},
		{Name: "USB-C 扩展坞", Description: "7 合 1，HDMI 4K60Hz，PD 100W", Price: money("229.00"), Stock: 80},
		{Name: "降噪头戴耳机", Description: "40mm 动圈，混合降噪，蓝牙 5.3", Price: money("699.00"), Stock: 35},
		{Name: "智能台灯", Description: "无频闪，色温亮度可调，支持定时", Price: money("129.00"), Stock: 150},
		{Name: "电竞鼠标", Description: "26000 DPI，轻量化 58g，板载宏", Price: money("249.00"), Stock: 90},
		{Name: "运动水壶", Description: "Tritan 材质，750ml，弹盖锁扣", Price: money("49.00"), Stock: 300},
		{Name: "笔记本内胆包", Description: "14 英寸，防泼水，绒布内里", Price: money("69.00"), Stock: 180},
		{Name: "双肩电脑包", Description: "独立电脑仓，防盗背板，USB 外接口", Price: money("259.00"), Stock: 70},
		{Name: "蓝牙音箱", Description: "20W 输出，IPX7 防水，续航 24 小时", Price: money("299.00"), Stock: 55},
	}
	for i := range products {
		p := products[i]
		if err := db.Where("name = ?", p.Name).FirstOrCreate(&p).Error; err != nil {
			stdLog.Fatalf("Failed to seed product %q: %v", p.Name, err)
		}
	}

	stdLog.Printf("Seed completed: 1 admin, 1 customer, %d products", len(products))
}

func money(value string) models.Money {
	return models.NewMoneyFromDecimal(decimal.RequireFromString(value))
}
