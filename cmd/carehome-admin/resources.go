package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/carehaven/carehome-admin/internal/backend"
	"github.com/carehaven/carehome-admin/internal/domain/model"
	"github.com/carehaven/carehome-admin/internal/pagination"
)

// filterFlag describes one list filter exposed as a string flag.
type filterFlag struct {
	key   string
	usage string
}

// parseListFlags reads -page, -limit and the given filters into a list query
// clamped to the configured page-size bounds.
func parseListFlags(ctx *commandContext, name string, args []string, filters ...filterFlag) (pagination.Query, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var page, limit int
	fs.IntVar(&page, "page", 1, "Page number (1-based)")
	fs.IntVar(&limit, "limit", ctx.Config.Pagination.DefaultLimit, "Rows per page")
	values := make([]string, len(filters))
	keys := make([]string, len(filters))
	for i, f := range filters {
		fs.StringVar(&values[i], f.key, "", f.usage)
		keys[i] = f.key
	}

	if err := fs.Parse(args); err != nil {
		return pagination.Query{}, err
	}

	raw := url.Values{}
	raw.Set("page", strconv.Itoa(page))
	raw.Set("limit", strconv.Itoa(limit))
	for i, key := range keys {
		raw.Set(key, values[i])
	}
	return pagination.ParseQuery(raw, ctx.Config.Pagination.Bounds(), keys...), nil
}

// table renders one page of T.
type table[T any] struct {
	columns []string
	row     func(T) []string
}

// listAndPrint fetches one page and prints it with a range footer.
func listAndPrint[T any](
	ctx *commandContext,
	q pagination.Query,
	fetch func(context.Context, pagination.Query) (pagination.Page[T], error),
	t table[T],
) error {
	view := pagination.NewView[T](ctx.Config.Pagination.Bounds())
	view.Apply(fetch(ctx.Ctx, q))
	if view.Err != nil {
		return handleBackendError(ctx, view.Err)
	}

	if len(view.Items) == 0 {
		return writeln(ctx.Out, "No results")
	}

	w := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	if err := writeln(w, strings.Join(t.columns, "\t")); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, item := range view.Items {
		if err := writeln(w, strings.Join(t.row(item), "\t")); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	d := view.Descriptor
	start, end := d.Range(len(view.Items))
	if d.Total <= 0 {
		return writef(ctx.Out, "\nShowing %d-%d (page %d of %d)\n", start, end, d.CurrentPage, d.LastPage())
	}
	return writef(ctx.Out, "\nShowing %d-%d of %d (page %d of %d)\n", start, end, d.Total, d.CurrentPage, d.LastPage())
}

func runUsers(ctx *commandContext, args []string) error {
	q, err := parseListFlags(ctx, "users", args,
		filterFlag{backend.FilterRole, "Filter by role"},
		filterFlag{backend.FilterActive, "Filter by active state (true|false)"},
	)
	if err != nil {
		return err
	}
	if _, err := requireSession(ctx); err != nil {
		return err
	}
	return listAndPrint(ctx, q, ctx.Backends.Users.List, table[model.User]{
		columns: []string{"ID", "Name", "Email", "Role", "Active"},
		row: func(u model.User) []string {
			return []string{u.ID, u.Name, u.Email, string(u.Role), yesNo(u.Active)}
		},
	})
}

func runDocuments(ctx *commandContext, args []string) error {
	q, err := parseListFlags(ctx, "documents", args,
		filterFlag{backend.FilterType, "Filter by document type"},
		filterFlag{backend.FilterActive, "Filter by active state (true|false)"},
	)
	if err != nil {
		return err
	}
	if _, err := requireSession(ctx); err != nil {
		return err
	}
	return listAndPrint(ctx, q, ctx.Backends.Documents.List, table[model.Document]{
		columns: []string{"ID", "Title", "Type", "Active", "Updated"},
		row: func(d model.Document) []string {
			return []string{d.ID, d.Title, string(d.Type), yesNo(d.Active), formatDate(d.UpdatedAt)}
		},
	})
}

func runCareHomes(ctx *commandContext, args []string) error {
	q, err := parseListFlags(ctx, "care-homes", args)
	if err != nil {
		return err
	}
	if _, err := requireSession(ctx); err != nil {
		return err
	}
	return listAndPrint(ctx, q, ctx.Backends.CareHomes.List, table[model.CareHome]{
		columns: []string{"ID", "Name", "Address", "Plan", "Active"},
		row: func(h model.CareHome) []string {
			return []string{h.ID, h.Name, dash(h.Address), dash(h.PlanID), yesNo(h.Active)}
		},
	})
}

func runPlans(ctx *commandContext, args []string) error {
	q, err := parseListFlags(ctx, "plans", args,
		filterFlag{backend.FilterActive, "Filter by active state (true|false)"},
	)
	if err != nil {
		return err
	}
	sess, err := requireSession(ctx)
	if err != nil {
		return err
	}
	scope := model.PlanScopeAdmin
	if sess.IsSuperAdmin() {
		scope = model.PlanScopeSuper
	}
	list := func(c context.Context, q pagination.Query) (pagination.Page[model.Plan], error) {
		return ctx.Backends.Plans.List(c, scope, q)
	}
	return listAndPrint(ctx, q, list, table[model.Plan]{
		columns: []string{"ID", "Name", "Price", "Interval", "Max residents", "Active"},
		row: func(p model.Plan) []string {
			return []string{
				p.ID,
				p.Name,
				strconv.FormatFloat(p.Price, 'f', 2, 64) + " " + p.Currency,
				string(p.BillingInterval),
				strconv.Itoa(p.MaxResidents),
				yesNo(p.Active),
			}
		},
	})
}

func runResidents(ctx *commandContext, args []string) error {
	q, err := parseListFlags(ctx, "residents", args)
	if err != nil {
		return err
	}
	if _, err := requireSession(ctx); err != nil {
		return err
	}
	return listAndPrint(ctx, q, ctx.Backends.Residents.List, table[model.Resident]{
		columns: []string{"ID", "Name", "Room", "Admitted", "Active"},
		row: func(r model.Resident) []string {
			var admitted time.Time
			if r.AdmissionDate != nil {
				admitted = *r.AdmissionDate
			}
			return []string{r.ID, r.Name, dash(r.RoomNumber), formatDate(admitted), yesNo(r.Active)}
		},
	})
}

func runCaregivers(ctx *commandContext, args []string) error {
	q, err := parseListFlags(ctx, "caregivers", args)
	if err != nil {
		return err
	}
	if _, err := requireSession(ctx); err != nil {
		return err
	}
	return listAndPrint(ctx, q, ctx.Backends.Caregivers.List, table[model.Caregiver]{
		columns: []string{"ID", "Name", "Shift", "Experience", "Active"},
		row: func(c model.Caregiver) []string {
			return []string{c.ID, c.Name, dash(c.Shift), strconv.Itoa(c.ExperienceYears) + "y", yesNo(c.Active)}
		},
	})
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
