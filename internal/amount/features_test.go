package amount_test

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/cucumber/godog"

	"github.com/ginjaninja78/salesdocs/internal/amount"
)

type amountTestContext struct {
	formatter amount.Formatter
	words     string
	err       error
}

func (c *amountTestContext) reset() {
	c.formatter = amount.Formatter{}
	c.words = ""
	c.err = nil
}

func (c *amountTestContext) theNumeralStyle(name string) error {
	style, err := amount.ParseStyle(name)
	if err != nil {
		return err
	}
	c.formatter.Style = style
	return nil
}

func (c *amountTestContext) iFormatTheAmount(raw string) error {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return err
	}
	c.words, c.err = c.formatter.Format(n)
	return nil
}

func (c *amountTestContext) theWordsAre(want string) error {
	if c.err != nil {
		return fmt.Errorf("expected words but got error: %v", c.err)
	}
	if c.words != want {
		return fmt.Errorf("expected %q, got %q", want, c.words)
	}
	return nil
}

func (c *amountTestContext) formattingFailsWithAnInvalidAmount() error {
	if !errors.Is(c.err, amount.ErrInvalidAmount) {
		return fmt.Errorf("expected ErrInvalidAmount, got %v", c.err)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &amountTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.Step(`^the (conventional|legacy) numeral style$`, tc.theNumeralStyle)
	ctx.Step(`^I format the amount (-?\d+)$`, tc.iFormatTheAmount)
	ctx.Step(`^the words are "([^"]*)"$`, tc.theWordsAre)
	ctx.Step(`^formatting fails with an invalid amount$`, tc.formattingFailsWithAnInvalidAmount)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
