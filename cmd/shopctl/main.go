// Command shopctl is a terminal storefront. It keeps the signed-in user and
// the cart in local storage between runs, runs one command against the API
// and prints the resulting state.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"go-storefront/actions"
	"go-storefront/apiclient"
	"go-storefront/cache"
	"go-storefront/checkout"
	"go-storefront/models"
	"go-storefront/pricing"
	"go-storefront/state"
	"go-storefront/storage"
)

const usage = `usage: shopctl [flags] <command> [args]

commands:
  signin EMAIL PASSWORD
  register NAME EMAIL PASSWORD
  signout
  products
  add PRODUCT_ID [QTY]
  remove PRODUCT_ID
  cart
  shipping FULL_NAME ADDRESS CITY POSTAL_CODE COUNTRY
  payment METHOD
  placeorder
  order ORDER_ID
  pay ORDER_ID PAYMENT_ID [STATUS] [PAYER_EMAIL]
  orders
`

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "shopctl", "storage.json")
}

func main() {
	var (
		apiURL      string
		storagePath string
		redisURL    string
		profile     string
		timeout     time.Duration
	)
	flag.StringVar(&apiURL, "api", "http://localhost:5000", "Storefront API base URL")
	flag.StringVar(&storagePath, "storage", defaultStoragePath(), "Local storage file")
	flag.StringVar(&redisURL, "redis-url", "", "Keep local storage in Redis instead of a file")
	flag.StringVar(&profile, "profile", "default", "Redis storage profile name")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var ls storage.LocalStorage = storage.NewFile(storagePath)
	if redisURL != "" {
		rdb, err := cache.Connect(ctx, redisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer rdb.Close()
		ls = storage.NewRedis(rdb, "shopctl:"+profile)
	}

	initial, err := state.Load(ls)
	if err != nil {
		log.Printf("Ignoring unreadable local storage: %v", err)
	}

	sh := &shell{
		ctx: ctx,
		creators: &actions.Creators{
			API:     apiclient.New(apiURL),
			Store:   state.NewStore(initial),
			Storage: ls,
		},
	}
	if err := sh.run(flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type shell struct {
	ctx      context.Context
	creators *actions.Creators
}

func (sh *shell) state() state.State {
	return sh.creators.Store.State()
}

func need(args []string, n int, what string) error {
	if len(args) < n {
		return fmt.Errorf("expected %s", what)
	}
	return nil
}

// guard refuses a wizard step whose prerequisites are missing
func (sh *shell) guard(step checkout.Step) error {
	if got := checkout.Guard(sh.state(), step); got != step {
		return fmt.Errorf("complete the %s step first", got)
	}
	return nil
}

func (sh *shell) run(cmd string, args []string) error {
	c := sh.creators
	switch cmd {
	case "signin":
		if err := need(args, 2, "EMAIL PASSWORD"); err != nil {
			return err
		}
		c.Signin(sh.ctx, args[0], args[1])
		return sh.printUser(sh.state().UserSignin.UserInfo, sh.state().UserSignin.Error)
	case "register":
		if err := need(args, 3, "NAME EMAIL PASSWORD"); err != nil {
			return err
		}
		c.Register(sh.ctx, args[0], args[1], args[2])
		return sh.printUser(sh.state().UserRegister.UserInfo, sh.state().UserRegister.Error)
	case "signout":
		c.Signout()
		fmt.Println("Signed out")
		return nil
	case "products":
		return sh.products()
	case "add":
		if err := need(args, 1, "PRODUCT_ID [QTY]"); err != nil {
			return err
		}
		qty := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			qty = n
		}
		c.AddToCart(sh.ctx, args[0], qty)
		if msg := sh.state().Cart.Error; msg != "" {
			return errors.New(msg)
		}
		return sh.printCart()
	case "remove":
		if err := need(args, 1, "PRODUCT_ID"); err != nil {
			return err
		}
		c.RemoveFromCart(args[0])
		return sh.printCart()
	case "cart":
		return sh.printCart()
	case "shipping":
		if err := sh.guard(checkout.StepShipping); err != nil {
			return err
		}
		if err := need(args, 5, "FULL_NAME ADDRESS CITY POSTAL_CODE COUNTRY"); err != nil {
			return err
		}
		c.SaveShippingAddress(models.ShippingAddress{
			FullName: args[0], Address: args[1], City: args[2], PostalCode: args[3], Country: args[4],
		})
		fmt.Println("Shipping address saved")
		return nil
	case "payment":
		if err := sh.guard(checkout.StepPayment); err != nil {
			return err
		}
		if err := need(args, 1, "METHOD"); err != nil {
			return err
		}
		c.SavePaymentMethod(args[0])
		fmt.Printf("Payment method: %s\n", args[0])
		return nil
	case "placeorder":
		return sh.placeOrder()
	case "order":
		if err := need(args, 1, "ORDER_ID"); err != nil {
			return err
		}
		return sh.order(args[0])
	case "pay":
		if err := need(args, 2, "ORDER_ID PAYMENT_ID [STATUS] [PAYER_EMAIL]"); err != nil {
			return err
		}
		result := models.PaymentResult{
			ID:         args[1],
			Status:     "COMPLETED",
			UpdateTime: time.Now().UTC().Format(time.RFC3339),
		}
		if len(args) > 2 {
			result.Status = args[2]
		}
		if len(args) > 3 {
			result.EmailAddress = args[3]
		}
		return sh.pay(args[0], result)
	case "orders":
		return sh.orders()
	default:
		return fmt.Errorf("unknown command %q\n\n%s", cmd, usage)
	}
}

func (sh *shell) printUser(info *models.UserInfo, errMsg string) error {
	if errMsg != "" {
		return errors.New(errMsg)
	}
	role := "customer"
	if info.IsAdmin {
		role = "admin"
	}
	fmt.Printf("Signed in as %s <%s> (%s)\n", info.Name, info.Email, role)
	return nil
}

func (sh *shell) products() error {
	products, err := sh.creators.API.ListProducts(sh.ctx)
	if err != nil {
		return errors.New(apiclient.Message(err))
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tBRAND\tPRICE\tSTOCK")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", p.ID.Hex(), p.Name, p.Brand, pricing.Format(p.Price), p.CountInStock)
	}
	return w.Flush()
}

func printSummary(w *tabwriter.Writer, p pricing.Prices) {
	fmt.Fprintf(w, "\t\tItems\t%s\n", pricing.Format(p.ItemsPrice))
	fmt.Fprintf(w, "\t\tShipping\t%s\n", pricing.Format(p.ShippingPrice))
	fmt.Fprintf(w, "\t\tTax\t%s\n", pricing.Format(p.TaxPrice))
	fmt.Fprintf(w, "\t\tOrder Total\t%s\n", pricing.Format(p.TotalPrice))
}

func (sh *shell) printCart() error {
	sum := checkout.PlaceOrder(sh.state().Cart)
	if !sum.CanPlace {
		fmt.Println("Cart is empty")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tNAME\tQTY\tPRICE")
	for _, it := range sum.Items {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", it.Product, it.Name, it.Qty, pricing.Format(it.Price))
	}
	printSummary(w, sum.Prices)
	return w.Flush()
}

func (sh *shell) placeOrder() error {
	if err := sh.guard(checkout.StepPlaceOrder); err != nil {
		return err
	}
	if err := sh.printCart(); err != nil {
		return err
	}
	if !checkout.PlaceOrder(sh.state().Cart).CanPlace {
		return errors.New("Cart is empty")
	}

	sh.creators.CreateOrder(sh.ctx)
	id, ok := checkout.CreatedOrderID(sh.state())
	if !ok {
		return errors.New(sh.state().OrderCreate.Error)
	}
	sh.creators.ResetCreate()
	fmt.Printf("Order %s placed\n", id)
	return sh.order(id)
}

// order runs the order screen's effects until it settles, then prints it
func (sh *shell) order(id string) error {
	sdkLoaded := false
	for i := 0; i < 3; i++ {
		switch checkout.PlanOrderScreen(sh.state(), id, sdkLoaded) {
		case checkout.EffectFetch:
			sh.creators.ResetPay()
			sh.creators.DetailsOrder(sh.ctx, id)
			if msg := sh.state().OrderDetails.Error; msg != "" {
				return errors.New(msg)
			}
		case checkout.EffectLoadSDK:
			fmt.Printf("Pay with PayPal: %s\n", checkout.SDKURL(sh.creators.PayPalClientID(sh.ctx)))
			sdkLoaded = true
		default:
			return sh.printOrder(sh.state().OrderDetails.Order)
		}
	}
	return sh.printOrder(sh.state().OrderDetails.Order)
}

func (sh *shell) printOrder(o *models.Order) error {
	if o == nil {
		return fmt.Errorf("order not loaded")
	}
	a := o.ShippingAddress
	fmt.Printf("Order: %s\n", o.ID.Hex())
	fmt.Printf("Shipping: %s, %s, %s, %s, %s\n", a.FullName, a.Address, a.City, a.PostalCode, a.Country)
	if o.IsDelivered && o.DeliveredAt != nil {
		fmt.Printf("Delivered at %s\n", o.DeliveredAt.Format(time.RFC3339))
	} else {
		fmt.Println("Not Delivered")
	}
	fmt.Printf("Payment: %s\n", o.PaymentMethod)
	if o.IsPaid && o.PaidAt != nil {
		fmt.Printf("Paid at %s\n", o.PaidAt.Format(time.RFC3339))
	} else {
		fmt.Println("Not Paid")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tNAME\tQTY\tPRICE")
	for _, it := range o.OrderItems {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", it.Product.Hex(), it.Name, it.Qty, pricing.Format(it.Price))
	}
	printSummary(w, pricing.Prices{
		ItemsPrice:    o.ItemsPrice,
		ShippingPrice: o.ShippingPrice,
		TaxPrice:      o.TaxPrice,
		TotalPrice:    o.TotalPrice,
	})
	return w.Flush()
}

func (sh *shell) pay(id string, result models.PaymentResult) error {
	sh.creators.DetailsOrder(sh.ctx, id)
	order := sh.state().OrderDetails.Order
	if order == nil {
		return errors.New(sh.state().OrderDetails.Error)
	}

	sh.creators.PayOrder(sh.ctx, order, result)
	if msg := sh.state().OrderPay.Error; msg != "" {
		return errors.New(msg)
	}
	return sh.order(id)
}

func (sh *shell) orders() error {
	sh.creators.ListMyOrders(sh.ctx)
	list := sh.state().OrderMineList
	if list.Error != "" {
		return errors.New(list.Error)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTOTAL\tPAID\tDELIVERED")
	for _, r := range checkout.HistoryRows(list.Orders) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Date, r.Total, r.Paid, r.Delivered)
	}
	return w.Flush()
}
