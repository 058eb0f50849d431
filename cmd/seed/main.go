package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/config"
	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/dataset"
	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/repository"
	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/seed"
	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var seedValue int64

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机操作员, 2: 生成合成病人表, 3: 生成合成床位表, 4: 导入真实 CSV 数据, 5: 生成完整合成数据集)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Int64Var(&seedValue, "seed", 0, "合成数据的随机种子，0 表示使用当前时间")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	if seedValue == 0 {
		seedValue = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seedValue))

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的操作员数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				operator, err := utils.GenerateRandomOperator(cfg.Seed.Operator.Password, cfg.Email.UserDomain)
				if err != nil {
					slog.Error("无法生成随机操作员", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateOperator(operator); err != nil {
					slog.Error("无法插入操作员", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入操作员成功", slog.Int("count", n-cnt))
		}
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的病人数量")
			return
		}

		patients := dataset.GeneratePatients(rng, n)
		if err := repo.ReplacePatients(patients); err != nil {
			slog.Error("无法写入合成病人表", slog.String("error", err.Error()))
			return
		}

		slog.Info("生成合成病人表成功", slog.Int("count", len(patients)), slog.Int64("seed", seedValue))
	case 3:
		if n <= 0 {
			slog.Error("请输入合法的床位数量")
			return
		}

		beds := dataset.GenerateBeds(rng, n)
		if err := repo.ReplaceBeds(beds); err != nil {
			slog.Error("无法写入合成床位表", slog.String("error", err.Error()))
			return
		}

		slog.Info("生成合成床位表成功", slog.Int("count", len(beds)), slog.Int64("seed", seedValue))
	case 4:
		seed.SeedRealData(repo)
	case 5:
		if n <= 0 {
			slog.Error("请输入合法的病人数量")
			return
		}

		// 床位数取病人数的四成，模拟床位紧张的病区
		patients := dataset.GeneratePatients(rng, n)
		beds := dataset.GenerateBeds(rng, max(n*2/5, 1))
		if err := repo.ReplacePatients(patients); err != nil {
			slog.Error("无法写入合成病人表", slog.String("error", err.Error()))
			return
		}
		if err := repo.ReplaceBeds(beds); err != nil {
			slog.Error("无法写入合成床位表", slog.String("error", err.Error()))
			return
		}

		slog.Info("生成合成数据集成功", slog.String("summary", dataset.Describe(patients, beds)), slog.Int64("seed", seedValue))
	default:
		slog.Error("指定的操作非法")
	}
}
