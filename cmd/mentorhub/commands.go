package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/mentorhub/go-mentorhub/auth"
	"github.com/mentorhub/go-mentorhub/guard"
	"github.com/mentorhub/go-mentorhub/internal/utils"
	"github.com/mentorhub/go-mentorhub/mentors"
	"github.com/mentorhub/go-mentorhub/session"
	"github.com/pkg/errors"
)

func (a *app) dispatch(ctx context.Context, args []string) error {
	switch args[0] {
	case "sign-in":
		return a.signIn(ctx, args[1:])
	case "sign-up":
		return a.signUp(ctx, args[1:])
	case "sign-out":
		a.service.SignOut()
		fmt.Println("Signed out.")
		return nil
	case "whoami":
		return a.whoami()
	case "mentors":
		return a.mentorsCmd(ctx, args[1:])
	case "learners":
		return a.learnersCmd(ctx, args[1:])
	case "bookings":
		return a.bookingsCmd(ctx, args[1:])
	case "admin":
		return a.adminCmd(ctx, args[1:])
	default:
		usage()
		return errors.Errorf("unknown command %q", args[0])
	}
}

// requireAuth runs the authentication guard the way the navigation layer
// would before entering a protected view.
func (a *app) requireAuth(ctx context.Context) error {
	if decision := a.authGuard.Check(ctx); !decision.Allowed {
		return errors.Errorf("not signed in (go to %s)", decision.RedirectTo)
	}
	return nil
}

// requireRole runs both guards for a role-protected view.
func (a *app) requireRole(ctx context.Context, role session.Role) error {
	if err := a.requireAuth(ctx); err != nil {
		return err
	}
	if decision := a.roleGuard.Check(role); !decision.Allowed {
		if decision.RedirectTo == guard.DefaultRoutes.Home {
			return errors.Errorf("your role does not allow this view (back to %s)", decision.RedirectTo)
		}
		return errors.Errorf("not signed in (go to %s)", decision.RedirectTo)
	}
	return nil
}

func (a *app) signIn(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sign-in", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return errors.New("sign-in requires -email and -password")
	}

	sess, err := a.service.SignIn(ctx, *email, *password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return errors.New("sign in failed: check your email and password")
		}
		return err
	}
	fmt.Printf("Welcome back, %s (%s).\n", sess.User.FullName, sess.User.Role)
	return nil
}

func (a *app) signUp(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sign-up", flag.ContinueOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	role := fs.String("role", "learner", "mentor or learner")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *email == "" || *password == "" {
		return errors.New("sign-up requires -name, -email and -password")
	}

	sess, err := a.service.SignUp(ctx, auth.NewUser{
		FullName: *name,
		Email:    *email,
		Password: *password,
		Role:     session.ParseRole(*role),
	})
	if err != nil {
		return err
	}
	fmt.Printf("Account created. You are signed in as %s (%s).\n", sess.User.FullName, sess.User.Role)
	return nil
}

func (a *app) whoami() error {
	user := a.service.CurrentUser()
	if user == nil {
		fmt.Println("Not signed in.")
		return nil
	}
	fmt.Printf("%s <%s> role=%s\n", user.FullName, user.Email, user.Role)
	return nil
}

func (a *app) mentorsCmd(ctx context.Context, args []string) error {
	if err := a.requireAuth(ctx); err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"list"}
	}

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("mentors list", flag.ContinueOnError)
		available := fs.Bool("available", false, "only available mentors")
		skills := fs.String("competences", "", "filter by competences")
		search := fs.String("search", "", "free-text filter")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}

		filters := mentors.ListFilters{Skills: *skills, Search: *search}
		if *available {
			filters.Available = utils.Ptr(true)
		}
		list, err := a.mentors.List(ctx, filters)
		if err != nil {
			return err
		}
		for _, m := range list {
			fmt.Printf("%d\t%s\t%s\t%s\n", m.ID, m.Name, m.Skills, m.Status)
		}
		return nil
	case "search":
		fs := flag.NewFlagSet("mentors search", flag.ContinueOnError)
		q := fs.String("q", "", "search query")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		list, err := a.mentors.Search(ctx, *q)
		if err != nil {
			return err
		}
		for _, m := range list {
			fmt.Printf("%d\t%s\t%s\n", m.ID, m.Name, m.Skills)
		}
		return nil
	default:
		return errors.Errorf("unknown mentors subcommand %q", args[0])
	}
}

func (a *app) learnersCmd(ctx context.Context, args []string) error {
	if err := a.requireAuth(ctx); err != nil {
		return err
	}

	list, err := a.learners.List(ctx)
	if err != nil {
		return err
	}
	for _, l := range list {
		fmt.Printf("%s\t%s\t%s\tactive=%t\n", l.ID, l.Name, l.Level, l.Active)
	}
	return nil
}

func (a *app) bookingsCmd(ctx context.Context, args []string) error {
	if err := a.requireAuth(ctx); err != nil {
		return err
	}
	if len(args) < 2 {
		return errors.New("bookings requires: mentor <id> | learner <id>")
	}

	switch args[0] {
	case "mentor":
		list, err := a.bookings.ForMentor(ctx, args[1])
		if err != nil {
			return err
		}
		for _, b := range list {
			fmt.Printf("%s\t%s\t%s\twith %s\n", b.ID, b.DateTime, b.Status, b.LearnerName)
		}
		return nil
	case "learner":
		list, err := a.bookings.ForLearner(ctx, args[1])
		if err != nil {
			return err
		}
		for _, b := range list {
			fmt.Printf("%s\t%s\t%s\twith %s\n", b.ID, b.DateTime, b.Status, b.MentorName)
		}
		return nil
	default:
		return errors.Errorf("unknown bookings subcommand %q", args[0])
	}
}

func (a *app) adminCmd(ctx context.Context, args []string) error {
	if err := a.requireRole(ctx, session.RoleAdmin); err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"stats"}
	}

	switch args[0] {
	case "stats":
		stats, err := a.admin.DashboardStats(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("mentors=%d learners=%d sessions=%d pending-mentors=%d\n",
			stats.TotalMentors, stats.TotalLearners, stats.TotalSessions, stats.PendingMentors)
		return nil
	case "mentors":
		fs := flag.NewFlagSet("admin mentors", flag.ContinueOnError)
		status := fs.String("status", "", "filter by status")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		list, err := a.admin.Mentors(ctx, mentors.Status(*status))
		if err != nil {
			return err
		}
		for _, m := range list {
			fmt.Printf("%d\t%s\t%s\n", m.ID, m.Name, m.Status)
		}
		return nil
	default:
		return errors.Errorf("unknown admin subcommand %q", args[0])
	}
}
