package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	domcart "example.com/food-storefront/internal/domain/cart"
	domfavorite "example.com/food-storefront/internal/domain/favorite"
	dommenu "example.com/food-storefront/internal/domain/menu"
	domorder "example.com/food-storefront/internal/domain/order"
	domprofile "example.com/food-storefront/internal/domain/profile"
	domuser "example.com/food-storefront/internal/domain/user"
	"example.com/food-storefront/internal/config"
	"example.com/food-storefront/internal/infra/cache"
	"example.com/food-storefront/internal/infra/catalog"
	"example.com/food-storefront/internal/infra/metrics"
	"example.com/food-storefront/internal/infra/notify"
	"example.com/food-storefront/internal/infra/persistence/migrate"
	"example.com/food-storefront/internal/infra/persistence/mysql"
	"example.com/food-storefront/internal/infra/persistence/postgres"
	"example.com/food-storefront/internal/infra/resilience"
	"example.com/food-storefront/internal/infra/security"
	api "example.com/food-storefront/internal/interface/http"
	authuc "example.com/food-storefront/internal/usecase/auth"
	cartuc "example.com/food-storefront/internal/usecase/cart"
	checkoutuc "example.com/food-storefront/internal/usecase/checkout"
	favoriteuc "example.com/food-storefront/internal/usecase/favorite"
	menuuc "example.com/food-storefront/internal/usecase/menu"
	orderuc "example.com/food-storefront/internal/usecase/order"
	profileuc "example.com/food-storefront/internal/usecase/profile"
)

const janitorInterval = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	switch cmd {
	case "serve":
		err = serve(ctx, cfg, logger)
	case "migrate":
		err = runMigrations(cfg)
	case "create-account":
		err = createAccount(ctx, cfg, os.Args[2:])
	case "seed-menu":
		err = seedMenu(ctx, cfg, os.Args[2:])
	default:
		err = fmt.Errorf("unknown command %q (want serve, migrate, create-account or seed-menu)", cmd)
	}
	if err != nil {
		logger.Error("exit", "command", cmd, "error", err)
		os.Exit(1)
	}
}

type repositories struct {
	orders    domorder.Repository
	profiles  domprofile.Repository
	menu      dommenu.Repository
	menuSeed  catalog.Upserter
	favorites domfavorite.Repository
	users     domuser.Repository
	close     func()
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.DBDriver {
	case "mysql":
		db, err := mysql.Open(ctx, cfg.MySQLDSN)
		if err != nil {
			return nil, err
		}
		menu := mysql.NewMenuRepository(db)
		return &repositories{
			orders:    mysql.NewOrderRepository(db),
			profiles:  mysql.NewProfileRepository(db),
			menu:      menu,
			menuSeed:  menu,
			favorites: mysql.NewFavoriteRepository(db),
			users:     mysql.NewUserRepository(db),
			close:     func() { _ = db.Close() },
		}, nil
	default:
		pool, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		menu := postgres.NewMenuRepository(pool)
		return &repositories{
			orders:    postgres.NewOrderRepository(pool),
			profiles:  postgres.NewProfileRepository(pool),
			menu:      menu,
			menuSeed:  menu,
			favorites: postgres.NewFavoriteRepository(pool),
			users:     postgres.NewUserRepository(pool),
			close:     pool.Close,
		}, nil
	}
}

func runMigrations(cfg *config.Config) error {
	url, err := migrate.URL(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return err
	}
	return migrate.Up(fmt.Sprintf("%s/%s", cfg.MigrationsDir, cfg.DBDriver), url)
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.RunMigrations {
		if err := runMigrations(cfg); err != nil {
			return err
		}
		logger.Info("migrations applied", "driver", cfg.DBDriver)
	}

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	menuRepo := repos.menu
	if cfg.MenuFile != "" {
		items, err := catalog.LoadFile(cfg.MenuFile)
		if err != nil {
			return err
		}
		menuRepo = catalog.NewMemoryRepository(items)
		logger.Info("menu loaded from file", "path", cfg.MenuFile, "items", len(items))
	}

	var snapshots domcart.SnapshotStore
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, carts stay in memory only", "addr", cfg.RedisAddr, "error", err)
		} else {
			snapshots = cache.NewCartStore(client, cfg.CartTTL)
		}
	}

	var notifiers []checkoutuc.Notifier
	if cfg.KafkaBrokers != "" {
		publisher := notify.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer publisher.Close()
		notifiers = append(notifiers, publisher)
	}
	if cfg.SMTPAddr != "" {
		notifiers = append(notifiers, notify.NewMailer(cfg.SMTPAddr, cfg.SMTPFrom, cfg.SMTPTo))
	}

	m := metrics.New()
	orders := resilience.NewOrderRepository(repos.orders, resilience.BreakerSettings{
		ConsecutiveFailures: cfg.BreakerMaxFailures,
		OpenTimeout:         cfg.BreakerOpenTimeout,
	}, logger)

	tokenSvc := security.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)
	menuSvc := menuuc.NewService(menuRepo)
	cartSvc := cartuc.NewService(menuSvc, snapshots, cfg.DeliveryFee, logger)
	profileSvc := profileuc.NewService(repos.profiles, orders, repos.favorites)

	handler := api.NewAPI(api.Dependencies{
		AuthService: authuc.NewService(repos.users, security.NewPasswordService(0), tokenSvc),
		MenuService: menuSvc,
		CartService: cartSvc,
		CheckoutService: checkoutuc.NewService(checkoutuc.Dependencies{
			Identity:      authuc.ContextIdentity{},
			Addresses:     profileSvc,
			Orders:        orders,
			Notifiers:     notifiers,
			Observer:      m,
			DeliveryFee:   cfg.DeliveryFee,
			NotifyTimeout: cfg.NotifyTimeout,
			Logger:        logger,
		}),
		ProfileService:  profileSvc,
		OrderService:    orderuc.NewService(orders),
		FavoriteService: favoriteuc.NewService(repos.favorites, menuSvc),
		TokenService:    tokenSvc,
		Metrics:         m,
		Logger:          logger,
	})

	go cartSvc.RunJanitor(ctx, janitorInterval, cfg.CartMaxIdle)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func createAccount(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("create-account", flag.ContinueOnError)
	email := fs.String("email", "", "account e-mail")
	password := fs.String("password", "", "account password (min 6 characters)")
	name := fs.String("name", "", "full name")
	role := fs.String("role", string(domuser.RoleCustomer), "customer or staff")
	if err := fs.Parse(args); err != nil {
		return err
	}
	r, err := domuser.ParseRole(*role)
	if err != nil {
		return err
	}

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	tokenSvc := security.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)
	u, err := authuc.NewService(repos.users, security.NewPasswordService(0), tokenSvc).CreateAccount(ctx, authuc.CreateAccountInput{
		Email:    *email,
		Password: *password,
		FullName: *name,
		Role:     r,
	})
	if err != nil {
		return err
	}
	slog.Info("account created", "id", u.ID.String(), "email", u.Email, "role", string(u.Role))
	return nil
}

func seedMenu(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("seed-menu", flag.ContinueOnError)
	file := fs.String("file", "config/menu.yaml", "menu YAML file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	items, err := catalog.LoadFile(*file)
	if err != nil {
		return err
	}

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	if err := catalog.Seed(ctx, repos.menuSeed, items); err != nil {
		return err
	}
	slog.Info("menu seeded", "items", len(items))
	return nil
}
