package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alchemorsel/dietplanner/internal/domain/plan"
	"github.com/alchemorsel/dietplanner/internal/domain/recipe"
	"github.com/alchemorsel/dietplanner/internal/ports/inbound"
	"github.com/alchemorsel/dietplanner/pkg/healthcheck"
)

type command struct {
	summary string
	run     func(ctx context.Context, env *environment, args []string) error
}

var commandOrder = []string{
	"recipes", "show-recipe", "add-recipe", "update-recipe", "delete-recipe",
	"meals", "schedule", "unschedule", "reschedule",
	"check", "calendar", "week",
	"policy", "add-food", "remove-food",
	"metrics", "doctor",
}

var commands = map[string]command{
	"recipes":       {"list recipes with their compliance", listRecipes},
	"show-recipe":   {"print one recipe", showRecipe},
	"add-recipe":    {"create a recipe", addRecipe},
	"update-recipe": {"change a recipe's servings, ingredients or instructions", updateRecipe},
	"delete-recipe": {"delete a recipe and its meals", deleteRecipe},
	"meals":         {"list scheduled meals", listMeals},
	"schedule":      {"schedule a meal", scheduleMeal},
	"unschedule":    {"remove a scheduled meal", unscheduleMeal},
	"reschedule":    {"move a scheduled meal", rescheduleMeal},
	"check":         {"check the plan against the diet", checkPlan},
	"calendar":      {"show meals and compliance day by day", calendar},
	"week":          {"show this or next week", week},
	"policy":        {"print the diet policy", showPolicy},
	"add-food":      {"classify a food as allowed, restricted or banned", addFood},
	"remove-food":   {"remove a food from the diet policy", removeFood},
	"metrics":       {"print metrics in Prometheus text format", printMetrics},
	"doctor":        {"check that the store and plan are readable", doctor},
}

// usageError marks a bad command line
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...interface{}) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return err
		}
		return usagef("%s: %v", fs.Name(), err)
	}
	if fs.NArg() > 0 {
		return usagef("%s: unexpected arguments %v", fs.Name(), fs.Args())
	}
	return nil
}

// ingredientList collects repeated -ingredient "qty unit food" flags
type ingredientList []inbound.IngredientCommand

func (l *ingredientList) String() string {
	parts := make([]string, 0, len(*l))
	for _, in := range *l {
		parts = append(parts, fmt.Sprintf("%g %s %s", in.Quantity, in.Unit, in.Food))
	}
	return strings.Join(parts, "; ")
}

func (l *ingredientList) Set(value string) error {
	in, err := parseIngredient(value)
	if err != nil {
		return err
	}
	*l = append(*l, in)
	return nil
}

func parseIngredient(value string) (inbound.IngredientCommand, error) {
	fields := strings.Fields(value)
	if len(fields) < 3 {
		return inbound.IngredientCommand{}, fmt.Errorf("want \"quantity unit food\", got %q", value)
	}
	q, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return inbound.IngredientCommand{}, fmt.Errorf("bad quantity %q", fields[0])
	}
	return inbound.IngredientCommand{
		Quantity: q,
		Unit:     fields[1],
		Food:     strings.Join(fields[2:], " "),
	}, nil
}

// dateFlag parses an ISO-8601 date; unset means today
type dateFlag struct {
	t   time.Time
	set bool
}

func (d *dateFlag) String() string {
	if !d.set {
		return "today"
	}
	return recipe.FormatDate(d.t)
}

func (d *dateFlag) Set(value string) error {
	t, err := recipe.ParseDate(value)
	if err != nil {
		return err
	}
	d.t, d.set = t, true
	return nil
}

func (d *dateFlag) or(now func() time.Time) time.Time {
	if d.set {
		return d.t
	}
	return recipe.DateOf(now())
}

func mealRef(key string, date *dateFlag, category string, env *environment) inbound.MealRef {
	return inbound.MealRef{RecipeKey: key, Date: date.or(env.now), Category: category}
}

func percent(fraction float64) string {
	return strconv.FormatFloat(fraction*100, 'f', 1, 64) + "%"
}

func verdict(accept bool) string {
	if accept {
		return "ok"
	}
	return "over"
}

// Recipes

func listRecipes(ctx context.Context, env *environment, args []string) error {
	if err := parse(newFlags("recipes"), args); err != nil {
		return err
	}
	if err := env.svc.CheckRecipes(ctx); err != nil {
		return err
	}
	recipes, err := env.svc.ListRecipes(ctx)
	if err != nil {
		return err
	}
	if len(recipes) == 0 {
		fmt.Fprintln(env.out, "no recipes")
		return nil
	}

	tw := tabwriter.NewWriter(env.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tNAME\tSERVINGS\tRESTRICTED\tSTATUS")
	for _, r := range recipes {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s (%s)\n", r.Key, r.Name, r.Servings, percent(r.Percent), verdict(r.Accept), r.Severity)
	}
	return tw.Flush()
}

func showRecipe(ctx context.Context, env *environment, args []string) error {
	fs := newFlags("show-recipe")
	key := fs.String("key", "", "recipe key")
	if err := parse(fs, args); err != nil {
		return err
	}
	r, err := env.svc.GetRecipe(ctx, *key)
	if err != nil {
		return err
	}
	printRecipe(env.out, r)
	return nil
}

func printRecipe(w io.Writer, r *inbound.RecipeDTO) {
	fmt.Fprintf(w, "%s (%s)\n", r.Name, r.Filename)
	fmt.Fprintf(w, "Servings: %d\n", r.Servings)
	fmt.Fprintf(w, "Restricted: %s %s (%s)\n", percent(r.Percent), verdict(r.Accept), r.Severity)
	fmt.Fprintln(w, "Ingredients:")
	for _, in := range r.Ingredients {
		fmt.Fprintf(w, "  %g %s %s\n", in.Quantity, in.Unit, in.Food)
	}
	if r.Instructions != "" {
		fmt.Fprintf(w, "Instructions:\n%s\n", r.Instructions)
	}
}

func addRecipe(ctx context.Context, env *environment, args []string) error {
	fs := newFlags("add-recipe")
	name := fs.String("name", "", "recipe name")
	servings := fs.Int("servings", 0, "number of servings")
	instructions := fs.String("instructions", "", "preparation steps")
	var ingredients ingredientList
	fs.Var(&ingredients, "ingredient", "\"quantity unit food\", repeatable")
	if err := parse(fs, args); err != nil {
		return err
	}

	r, err := env.svc.CreateRecipe(ctx, inbound.CreateRecipeCommand{
		Name:         *name,
		Servings:     *servings,
		Ingredients:  ingredients,
		Instructions: *instructions,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "created %s\n", r.Key)
	printRecipe(env.out, r)
	return nil
}

func updateRecipe(ctx context.Context, env *environment, args []string) error {
	fs := newFlags("update-recipe")
	key := fs.String("key", "", "recipe key")
	name := fs.String("name", "", "new name; must keep the same key")
	servings := fs.Int("servings", 0, "number of servings")
	instructions := fs.String("instructions", "", "preparation steps")
	var ingredients ingredientList
	fs.Var(&ingredients, "ingredient", "\"quantity unit food\", repeatable; replaces all ingredients")
	if err := parse(fs, args); err != nil {
		return err
	}

	cmd := inbound.UpdateRecipeCommand{Key: *key}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			cmd.Name = name
		case "servings":
			cmd.Servings = servings
		case "instructions":
			cmd.Instructions = instructions
		case "ingredient":
			lines := []inbound.IngredientCommand(ingredients)
			cmd.Ingredients = &lines
		}
	})

	r, err := env.svc.UpdateRecipe(ctx, cmd)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "updated %s\n", r.Key)
	printRecipe(env.out, r)
	return nil
}

func deleteRecipe(ctx context.Context, env *environment, args []string) error {
	fs := newFlags("delete-recipe")
	key := fs.String("key", "", "recipe key")
	if err := parse(fs, args); err != nil {
		return err
	}
	if _, err := env.svc.GetRecipe(ctx, *key); err != nil {
		return err
	}
	removed, err := env.svc.DeleteRecipe(ctx, *key)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "deleted %s and %d meal(s)\n", *key, removed)
	return nil
}

// Meals

func listMeals(ctx context.Context, env *environment, args []string) error {
	fs := newFlags("meals")
	var start dateFlag
	fs.Var(&start, "start", "first date (YYYY-MM-DD)")
	days := fs.Int("days", plan.ScaleWeek, "number of days")
	if err := parse(fs, args); err != nil {
		return err
	}
	meals, err := env.svc.GetMeals(ctx, start.or(env.now), *days)
	if err != nil {
		return err
	}
	printMeals(env.out, meals)
	return nil
}

func printMeals(w io.Writer, meals []inbound.MealDTO) {
	if len(meals) == 0 {
		fmt.Fprintln(w, "no meals")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tCATEGORY\tRECIPE\tRESTRICTED\tSTATUS")
	for _, m := range meals {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", recipe.FormatDate(m.Date), m.Category, m.Name, percent(m.Percent), verdict(m.Accept))
	}
	tw.Flush()
}

func mealFlags(name string) (*flag.FlagSet, *string, *dateFlag, *string) {
	fs := newFlags(name)
	key := fs.String("recipe", "", "recipe key")
	date := &dateFlag{}
	fs.Var(date, "date", "meal date (YYYY-MM-DD), default today")
	category := fs.String("category", "", "breakfast, lunch, dinner or snack (default snack)")
	return fs, key, date, category
}

func scheduleMeal(ctx context.Context, env *environment, args []string) error {
	fs, key, date, category := mealFlags("schedule")
	if err := parse(fs, args); err != nil {
		return err
	}
	m, err := env.svc.ScheduleMeal(ctx, mealRef(*key, date, *category, env))
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "scheduled %s for %s %s\n", m.RecipeKey, recipe.FormatDate(m.Date), m.Category)
	return nil
}

func unscheduleMeal(ctx context.Context, env *environment, args []string) error {
	fs, key, date, category := mealFlags("unschedule")
	if err := parse(fs, args); err != nil {
		return err
	}
	removed, err := env.svc.UnscheduleMeal(ctx, mealRef(*key, date, *category, env))
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "removed %d meal(s)\n", removed)
	return nil
}

func rescheduleMeal(ctx context.Context, env *environment, args []string) error {
	fs, key, date, category := mealFlags("reschedule")
	toKey := fs.String("to-recipe", "", "new recipe key (default unchanged)")
	toDate := &dateFlag{}
	fs.Var(toDate, "to-date", "new date (default unchanged)")
	toCategory := fs.String("to-category", "", "new category (default unchanged)")
	if err := parse(fs, args); err != nil {
		return err
	}

	from := mealRef(*key, date, *category, env)
	to := from
	if *toKey != "" {
		to.RecipeKey = *toKey
	}
	if toDate.set {
		to.Date = toDate.t
	}
	if *toCategory != "" {
		to.Category = *toCategory
	}

	m, err := env.svc.RescheduleMeal(ctx, inbound.RescheduleMealCommand{From: from, To: to})
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "moved to %s %s %s\n", m.RecipeKey, recipe.FormatDate(m.Date), m.Category)
	return nil
}

// Compliance

func checkPlan(ctx context.Context, env *environment, args []string) error {
	fs := newFlags("check")
	var start dateFlag
	fs.Var(&start, "start", "first date (YYYY-MM-DD)")
	days := fs.Int("days", plan.ScaleWeek, "number of days")
	if err := parse(fs, args); err != nil {
		return err
	}
	c, err := env.svc.CheckPlan(ctx, start.or(env.now), *days)
	if err != nil {
		return err
	}
	printCompliance(env.out, c)
	return nil
}

func printCompliance(w io.Writer, c *inbound.ComplianceDTO) {
	status := "PASS"
	if !c.Passed {
		status = "FAIL"
	}
	fmt.Fprintf(w, "%s restricted %s (%g g of %g g) severity %s\n",
		status, percent(c.RestrictedFraction), c.RestrictedMass, c.RestrictedMass+c.OtherMass, c.Severity)
	if len(c.Banned) > 0 {
		fmt.Fprintf(w, "banned: %s\n", strings.Join(c.Banned, ", "))
	}
}

func calendar(ctx context.Context, env *environment, args []string) error {
	fs := newFlags("calendar")
	var start dateFlag
	fs.Var(&start, "start", "first date (YYYY-MM-DD)")
	days := fs.Int("days", plan.ScaleWeek, "number of days")
	shift := fs.Int("shift", 0, "move the window by this many windows; negative moves back")
	if err := parse(fs, args); err != nil {
		return err
	}

	from := start.or(env.now)
	if *shift != 0 {
		var err error
		if from, err = plan.Shift(from, *days, *shift); err != nil {
			return err
		}
	}
	return printCalendar(ctx, env, from, *days)
}

func week(ctx context.Context, env *environment, args []string) error {
	fs := newFlags("week")
	var date dateFlag
	fs.Var(&date, "date", "any date in the week (YYYY-MM-DD)")
	next := fs.Bool("next", false, "show the following week")
	shift := fs.Int("shift", 0, "move by this many weeks; negative moves back")
	if err := parse(fs, args); err != nil {
		return err
	}

	which := plan.WeekThis
	if *next {
		which = plan.WeekNext
	}
	start, err := plan.FindWeekStart(date.or(env.now), which)
	if err != nil {
		return err
	}
	if start, err = plan.Shift(start, plan.ScaleWeek, *shift); err != nil {
		return err
	}
	return printCalendar(ctx, env, start, plan.ScaleWeek)
}

func printCalendar(ctx context.Context, env *environment, start time.Time, days int) error {
	view, err := env.svc.Calendar(ctx, start, days)
	if err != nil {
		return err
	}
	for _, d := range view {
		fmt.Fprintf(env.out, "%s %s  total %g g  ", d.Date.Weekday().String()[:3], recipe.FormatDate(d.Date), d.TotalMass)
		printCompliance(env.out, &d.Compliance)
		for _, m := range d.Meals {
			fmt.Fprintf(env.out, "    %-9s %s\n", m.Category, m.Name)
		}
	}
	return nil
}

// Diet policy

func showPolicy(ctx context.Context, env *environment, args []string) error {
	if err := parse(newFlags("policy"), args); err != nil {
		return err
	}
	p, err := env.svc.GetPolicy(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "allowed:    %s\n", strings.Join(p.Allowed, ", "))
	fmt.Fprintf(env.out, "restricted: %s\n", strings.Join(p.Restricted, ", "))
	fmt.Fprintf(env.out, "banned:     %s\n", strings.Join(p.Banned, ", "))
	return nil
}

func addFood(ctx context.Context, env *environment, args []string) error {
	fs := newFlags("add-food")
	class := fs.String("class", "", "allowed, restricted or banned")
	food := fs.String("food", "", "food name")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := env.svc.AddFood(ctx, inbound.AddFoodCommand{Food: *food, Class: *class}); err != nil {
		return err
	}
	fmt.Fprintf(env.out, "%s is now %s\n", *food, *class)
	return nil
}

func removeFood(ctx context.Context, env *environment, args []string) error {
	fs := newFlags("remove-food")
	food := fs.String("food", "", "food name")
	if err := parse(fs, args); err != nil {
		return err
	}
	removed, err := env.svc.RemoveFood(ctx, *food)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintf(env.out, "%s was not listed\n", *food)
		return nil
	}
	fmt.Fprintf(env.out, "removed %s\n", *food)
	return nil
}

func printMetrics(ctx context.Context, env *environment, args []string) error {
	if err := parse(newFlags("metrics"), args); err != nil {
		return err
	}
	return env.metrics.WriteText(env.out)
}

// errUnhealthy fails the doctor command without another message
var errUnhealthy = errors.New("store is unhealthy")

func doctor(ctx context.Context, env *environment, args []string) error {
	if err := parse(newFlags("doctor"), args); err != nil {
		return err
	}
	response := env.health.Check(ctx)
	for _, c := range response.Checks {
		fmt.Fprintf(env.out, "%-6s %-9s %s\n", c.Name, c.Status, c.Message)
	}
	fmt.Fprintf(env.out, "overall: %s\n", response.Status)
	if response.Status == healthcheck.StatusUnhealthy {
		return errUnhealthy
	}
	return nil
}
