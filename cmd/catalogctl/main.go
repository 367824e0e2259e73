package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"catalog-admin/internal/apiclient"
	"catalog-admin/internal/config"
	"catalog-admin/internal/domain"
	"catalog-admin/internal/logger"
	"catalog-admin/internal/store"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const usage = `Usage: catalogctl [list|create|update|delete] [flags]

Commands:
  list     show the filtered, sorted page of products (default)
  create   create a product from the form flags
  update   change the form flags that were given on product --id
  delete   delete product --id

Flags:
`

type options struct {
	command string

	search   string
	category string
	stock    string
	price    string
	date     string
	sort     string
	order    string
	page     int

	id          string
	name        string
	description string
	priceValue  float64
	imageURL    string
	formCat     string
	stockValue  int
}

func main() {
	fs := pflag.NewFlagSet("catalogctl", pflag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fs.PrintDefaults()
	}

	v := viper.New()
	opts := &options{}
	registerFlags(fs, v, opts)

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	opts.command = "list"
	if fs.NArg() > 0 {
		opts.command = fs.Arg(0)
	}

	cfg := config.LoadWith(v)

	// Logs go to stderr so they never mix with the product table.
	level := cfg.LogLevel
	if level == "" {
		level = "warn"
	}
	log, err := logger.NewWithOptions(logger.Options{Env: cfg.Server.Env, Level: level, Output: "stderr"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := apiclient.New(cfg.Client.BaseURL, cfg.Client.Timeout, log)
	coordinator := store.NewCoordinator(client, log, store.Options{
		PageSize:       cfg.Client.PageSize,
		SearchDebounce: cfg.Client.SearchDebounce,
	})
	defer coordinator.Close()

	if err := run(ctx, coordinator, fs, opts, os.Stdout); err != nil {
		log.Debug("Command failed", zap.String("command", opts.command), zap.Error(err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func registerFlags(fs *pflag.FlagSet, v *viper.Viper, opts *options) {
	fs.String("base-url", "", "catalog API base URL (API_BASE_URL)")
	fs.Int("page-size", 0, "products per page (PAGE_SIZE)")
	fs.Int("debounce-ms", 0, "search quiescence window in milliseconds (SEARCH_DEBOUNCE_MS)")
	fs.String("env", "", "development or production logging (SERVER_ENV)")
	fs.String("log-level", "", "debug, info, warn or error (LOG_LEVEL)")

	fs.StringVar(&opts.search, "search", "", "case-insensitive text in name or description")
	fs.StringVar(&opts.category, "category", store.CategoryAll, "category, or all")
	fs.StringVar(&opts.stock, "stock", string(domain.StockAll), "all or outOfStock")
	fs.StringVar(&opts.price, "price", "all", "all, under100, 100to500, 500to1000 or over1000")
	fs.StringVar(&opts.date, "date", "", "all, today, yesterday, last7days, last30days or last90days")
	fs.StringVar(&opts.sort, "sort", "", "name, price, stock or createdAt")
	fs.StringVar(&opts.order, "order", string(domain.SortOrderAsc), "asc or desc")
	fs.IntVar(&opts.page, "page", 1, "page to show")

	fs.StringVar(&opts.id, "id", "", "product id for update and delete")
	fs.StringVar(&opts.name, "name", "", "product name")
	fs.StringVar(&opts.description, "description", "", "product description")
	fs.Float64Var(&opts.priceValue, "price-value", 0, "product price")
	fs.StringVar(&opts.imageURL, "image-url", "", "product image URL")
	fs.StringVar(&opts.formCat, "form-category", "", "product category")
	fs.IntVar(&opts.stockValue, "stock-value", 0, "product stock")

	v.BindPFlag("API_BASE_URL", fs.Lookup("base-url"))
	v.BindPFlag("PAGE_SIZE", fs.Lookup("page-size"))
	v.BindPFlag("SERVER_ENV", fs.Lookup("env"))
	v.BindPFlag("LOG_LEVEL", fs.Lookup("log-level"))
	v.BindPFlag("SEARCH_DEBOUNCE_MS", fs.Lookup("debounce-ms"))
}

func run(ctx context.Context, c *store.Coordinator, fs *pflag.FlagSet, opts *options, out io.Writer) error {
	switch opts.command {
	case "list":
		return list(ctx, c, opts, out)
	case "create":
		return create(ctx, c, opts, out)
	case "update":
		return update(ctx, c, fs, opts, out)
	case "delete":
		return remove(ctx, c, opts, out)
	default:
		return fmt.Errorf("unknown command %q", opts.command)
	}
}

func list(ctx context.Context, c *store.Coordinator, opts *options, out io.Writer) error {
	c.ClearFilters()
	if err := c.FetchAll(ctx); err != nil {
		return err
	}

	patches, err := filterPatches(opts, time.Now())
	if err != nil {
		return err
	}
	for _, patch := range patches {
		c.SetFilters(patch)
	}

	if opts.search != "" {
		c.Search(opts.search)
		c.FlushSearch()
	}

	c.SetSort(domain.SortField(opts.sort), domain.SortOrder(opts.order))
	c.SetPagination(opts.page, 0)

	state := c.Snapshot()
	printProducts(out, state.View())
	fmt.Fprintf(out, "\nPage %d of %d, %d of %d products", state.Pagination.Page, state.PageCount(), state.Pagination.Total, len(state.Items))
	if store.HasActiveFilters(state.Filters) {
		fmt.Fprint(out, " (filtered)")
	}
	fmt.Fprintln(out)
	return nil
}

func filterPatches(opts *options, now time.Time) ([]domain.FilterPatch, error) {
	patches := []domain.FilterPatch{store.CategoryPatch(opts.category)}

	stock, err := store.StockPatch(domain.StockFilter(opts.stock))
	if err != nil {
		return nil, err
	}
	price, err := store.PricePatch(opts.price)
	if err != nil {
		return nil, err
	}
	patches = append(patches, stock, price)

	if opts.date != "" {
		date, err := store.DatePatch(opts.date, now)
		if err != nil {
			return nil, err
		}
		patches = append(patches, date)
	}

	return patches, nil
}

func create(ctx context.Context, c *store.Coordinator, opts *options, out io.Writer) error {
	form := store.ProductForm{
		Name:        opts.name,
		Description: opts.description,
		Price:       opts.priceValue,
		ImageURL:    opts.imageURL,
		Category:    opts.formCat,
		Stock:       opts.stockValue,
	}
	if err := checkForm(form); err != nil {
		return err
	}

	product, err := c.Create(ctx, form.Input())
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Created product %s\n", product.ID)
	printProducts(out, []domain.Product{product})
	return nil
}

func update(ctx context.Context, c *store.Coordinator, fs *pflag.FlagSet, opts *options, out io.Writer) error {
	if opts.id == "" {
		return errors.New("--id is required")
	}
	if err := c.FetchAll(ctx); err != nil {
		return err
	}

	var current *domain.Product
	for _, p := range c.Snapshot().Items {
		if p.ID == opts.id {
			p := p
			current = &p
			break
		}
	}
	if current == nil {
		return fmt.Errorf("product %s not found", opts.id)
	}

	form := store.FormFromProduct(*current)
	if fs.Changed("name") {
		form.Name = opts.name
	}
	if fs.Changed("description") {
		form.Description = opts.description
	}
	if fs.Changed("price-value") {
		form.Price = opts.priceValue
	}
	if fs.Changed("image-url") {
		form.ImageURL = opts.imageURL
	}
	if fs.Changed("form-category") {
		form.Category = opts.formCat
	}
	if fs.Changed("stock-value") {
		form.Stock = opts.stockValue
	}
	if err := checkForm(form); err != nil {
		return err
	}

	product, err := c.Update(ctx, opts.id, form.Input())
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Updated product %s\n", product.ID)
	printProducts(out, []domain.Product{product})
	return nil
}

func remove(ctx context.Context, c *store.Coordinator, opts *options, out io.Writer) error {
	if opts.id == "" {
		return errors.New("--id is required")
	}
	if err := c.Delete(ctx, opts.id); err != nil {
		return err
	}

	fmt.Fprintf(out, "Deleted product %s\n", opts.id)
	return nil
}

func checkForm(form store.ProductForm) error {
	errs := store.ValidateForm(form)
	if len(errs) == 0 {
		return nil
	}

	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return fmt.Errorf("invalid product: %s", strings.Join(messages, "; "))
}

func printProducts(out io.Writer, products []domain.Product) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK\tCREATED")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%d\t%s\n",
			p.ID, p.Name, p.Category, p.Price, p.Stock, p.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	w.Flush()
}
