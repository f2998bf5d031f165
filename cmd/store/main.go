package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/elis-elis/bestbuy/internal/domain"
)

// defaultCatalog builds the demo catalog the CLI runs against.
// Constructed fresh per call so two stores never share product state.
func defaultCatalog() ([]domain.Product, error) {
	macbook, err := domain.NewProduct("MacBook Air M2", 1450, 100)
	if err != nil {
		return nil, err
	}
	earbuds, err := domain.NewProduct("Bose QuietComfort Earbuds", 250, 500)
	if err != nil {
		return nil, err
	}
	pixel, err := domain.NewProduct("Google Pixel 7", 500, 250)
	if err != nil {
		return nil, err
	}
	license, err := domain.NewNonStockedProduct("Windows License", 125)
	if err != nil {
		return nil, err
	}
	shipping, err := domain.NewLimitedProduct("Shipping", 10, 250, 1)
	if err != nil {
		return nil, err
	}

	secondHalf := domain.NewSecondHalfPrice("Second Half price!")
	thirdFree := domain.NewThirdOneFree("Third One Free!")
	thirtyOff, err := domain.NewPercentDiscount("30% off!", 30)
	if err != nil {
		return nil, err
	}

	macbook.SetPromotion(secondHalf)
	earbuds.SetPromotion(thirdFree)
	license.SetPromotion(thirtyOff)

	return []domain.Product{macbook, earbuds, pixel, license, shipping}, nil
}

type cli struct {
	store *domain.Store
	in    *bufio.Scanner
	out   io.Writer
}

func (c *cli) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *cli) prompt(label string) (string, bool) {
	c.printf("%s", label)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *cli) displayMenu() {
	c.printf("\nStore Menu\n")
	c.printf("----------\n")
	c.printf("1. List all products in store\n")
	c.printf("2. Show total amount in store\n")
	c.printf("3. Make an order\n")
	c.printf("4. Quit\n")
}

func (c *cli) listProducts() []domain.Product {
	products := c.store.GetAllProducts()
	if len(products) == 0 {
		c.printf("no products available.\n")
		return nil
	}
	c.printf("------\n")
	for i, p := range products {
		c.printf("%d. %s\n", i+1, p.Show())
	}
	return products
}

func (c *cli) showTotalAmount() {
	c.printf("Total of %d items in store.\n", c.store.GetTotalQuantity())
}

func (c *cli) makeOrder(products []domain.Product) {
	c.printf("When you want to finish order, enter empty text.\n")

	var lines []domain.OrderLine
	for {
		raw, ok := c.prompt("Which product # do you want? ")
		if !ok || raw == "" {
			break
		}

		num, err := strconv.Atoi(raw)
		if err != nil || num < 1 || num > len(products) {
			continue
		}

		raw, ok = c.prompt("What amount do you want? ")
		if !ok {
			break
		}
		amount, err := strconv.Atoi(raw)
		if err != nil || amount < 1 {
			continue
		}

		lines = append(lines, domain.OrderLine{Product: products[num-1], Quantity: amount})
		c.printf("Product added to your list!\n\n")
	}

	if len(lines) == 0 {
		return
	}

	total, applied, err := c.store.OrderApplied(lines)
	if err != nil {
		c.printf("%v\n", err)
		if applied > 0 {
			c.printf("%d of %d lines were applied. Total payment: $%s\n",
				applied, len(lines), formatAmount(total))
		}
		return
	}

	c.printf("********\n")
	c.printf("Order accepted! Total payment: $%s\n", formatAmount(total))
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (c *cli) run() {
	for {
		c.displayMenu()
		choice, ok := c.prompt("Please choose a number (1-4): ")
		if !ok {
			return
		}
		c.printf("\n")

		switch choice {
		case "1":
			c.listProducts()
			c.printf("------\n")
		case "2":
			c.showTotalAmount()
			c.printf("------\n")
		case "3":
			products := c.listProducts()
			c.printf("------\n")
			if len(products) > 0 {
				c.makeOrder(products)
			}
			c.printf("------\n")
		case "4":
			return
		}
	}
}

func main() {
	catalog, err := defaultCatalog()
	if err != nil {
		log.Fatalf("Failed to build catalog: %v", err)
	}

	c := &cli{
		store: domain.NewStore(catalog),
		in:    bufio.NewScanner(os.Stdin),
		out:   os.Stdout,
	}
	c.run()
}
