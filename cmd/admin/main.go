package main

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/mail"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"jobboard/internal/auth"
	"jobboard/internal/config"
	"jobboard/internal/database"
)

type options struct {
	email  string
	name   string
	reset  bool
	dbHost string
	dbPort int
	dbName string
}

func main() {
	var opts options
	flag.StringVar(&opts.email, "email", "", "管理员邮箱（必填）")
	flag.StringVar(&opts.name, "name", "Administrator", "管理员显示名称")
	flag.BoolVar(&opts.reset, "reset", false, "为已存在的管理员重置密码")
	flag.StringVar(&opts.dbHost, "db-host", "", "数据库 Host（可选，覆盖 DATABASE_HOST）")
	flag.IntVar(&opts.dbPort, "db-port", 0, "数据库 Port（可选，覆盖 DATABASE_PORT）")
	flag.StringVar(&opts.dbName, "db-name", "", "数据库名（可选，覆盖 POSTGRES_DB）")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}

	addr, err := mail.ParseAddress(strings.TrimSpace(opts.email))
	if err != nil {
		log.Fatalf("invalid --email: %v", err)
	}
	email := strings.ToLower(addr.Address)

	dbCfg, err := config.LoadDatabase()
	if err != nil {
		log.Fatalf("load database config: %v", err)
	}
	opts.override(&dbCfg)

	db, err := database.InitDatabase(dbCfg)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	password, err := generateRandomPassword(24)
	if err != nil {
		log.Fatalf("generate password: %v", err)
	}
	hashed, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	var existing database.User
	switch err := db.Where("email = ?", email).First(&existing).Error; {
	case err == nil:
		if !opts.reset {
			log.Fatalf("user %q already exists (use --reset to issue a new password)", email)
		}
		if existing.Role != database.RoleAdmin {
			log.Fatalf("user %q is a %s, not an admin", email, existing.Role)
		}
		err := db.Model(&existing).Updates(map[string]any{
			"password_hash":        hashed,
			"must_change_password": true,
		}).Error
		if err != nil {
			log.Fatalf("reset password: %v", err)
		}
		fmt.Printf("已重置管理员密码（下次登录需强制改密）：\n")
	case errors.Is(err, gorm.ErrRecordNotFound):
		user := database.User{
			Name:               strings.TrimSpace(opts.name),
			Email:              email,
			Role:               database.RoleAdmin,
			PasswordHash:       hashed,
			MustChangePassword: true,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("create user: %v", err)
		}
		fmt.Printf("已创建初始管理员账号（首次登录需强制改密）：\n")
	default:
		log.Fatalf("query user: %v", err)
	}

	fmt.Printf("邮箱: %s\n", email)
	fmt.Printf("密码: %s\n", password)
	fmt.Printf("提示：该密码仅显示一次。\n")
}

// override 用命令行参数覆盖环境变量中的连接设置。
func (o options) override(cfg *config.DatabaseConfig) {
	if o.dbHost != "" {
		cfg.Host = o.dbHost
	}
	if o.dbPort > 0 {
		cfg.Port = o.dbPort
	}
	if o.dbName != "" {
		cfg.Name = o.dbName
	}
}

func generateRandomPassword(bytesLen int) (string, error) {
	buf := make([]byte, bytesLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
