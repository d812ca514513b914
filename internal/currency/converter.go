package currency

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Base is the currency all amounts are stored and transmitted in.
// Everything else is a render-time approximation from the static table.
const Base = "KES"

type rate struct {
	Symbol     string
	Multiplier float64
}

// Static table, fixed at build time. There is no live FX feed; totals
// shown in a non-base currency are informational only.
var rates = map[string]rate{
	"KES": {Symbol: "KSh", Multiplier: 1},
	"USD": {Symbol: "$", Multiplier: 0.0077},
	"EUR": {Symbol: "€", Multiplier: 0.0071},
	"GBP": {Symbol: "£", Multiplier: 0.0061},
}

var printer = message.NewPrinter(language.English)

// Converter holds the selected display currency. The rate table is
// immutable; the selected code is the only mutable field.
type Converter struct {
	mu   sync.Mutex
	code string
}

func NewConverter() *Converter {
	return &Converter{code: Base}
}

// SetCurrency selects the display currency. Unknown codes are ignored.
func (c *Converter) SetCurrency(code string) {
	if _, ok := rates[code]; !ok {
		return
	}
	c.mu.Lock()
	c.code = code
	c.mu.Unlock()
}

func (c *Converter) Currency() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.code
}

// Convert turns a base-currency amount into whole units of the selected
// display currency, rounded to nearest.
func (c *Converter) Convert(amountInBase int) int {
	r := rates[c.Currency()]
	return int(math.Round(float64(amountInBase) * r.Multiplier))
}

// Format renders a base-currency amount as "{symbol} {amount}" with
// thousands separators, in the selected display currency.
func (c *Converter) Format(amountInBase int) string {
	r := rates[c.Currency()]
	return fmt.Sprintf("%s %s", r.Symbol, printer.Sprintf("%d", c.Convert(amountInBase)))
}

// Codes lists the supported display currencies for the selection
// control, sorted for a stable render order.
func Codes() []string {
	out := make([]string, 0, len(rates))
	for code := range rates {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
