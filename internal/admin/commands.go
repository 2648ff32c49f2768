// Package admin implements the imunetrack-admin command line: bootstrap
// administrators and inspect or seed the catalogue directly against storage.
package admin

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/imunetrack/internal/dbx"
	"github.com/dmitrijs2005/imunetrack/internal/logging"
	"github.com/dmitrijs2005/imunetrack/internal/server"
	"github.com/dmitrijs2005/imunetrack/internal/server/config"
	"github.com/dmitrijs2005/imunetrack/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/imunetrack/internal/server/services"
	"github.com/dmitrijs2005/imunetrack/internal/validation"
)

// OpenFunc opens storage for cfg.
type OpenFunc func(ctx context.Context, cfg *config.Config, log logging.Logger) (dbx.Conn, repomanager.RepositoryManager, error)

type env struct {
	conn     dbx.Conn
	users    *services.UserService
	vaccines *services.VaccineService
}

type app struct {
	open       OpenFunc
	configPath string
	dsn        string
	env        *env
}

// Run executes the command line in args against storage opened with open
// (server.OpenStorage when nil) and closes storage afterwards.
func Run(ctx context.Context, args []string, open OpenFunc, out, errOut io.Writer) error {
	if open == nil {
		open = server.OpenStorage
	}
	a := &app{open: open}

	cmd := a.rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	err := cmd.ExecuteContext(ctx)
	if a.env != nil {
		if cerr := a.env.conn.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close storage: %w", cerr)
		}
	}
	return err
}

func (a *app) rootCmd() *cobra.Command {

	cmd := &cobra.Command{
		Use:           "imunetrack-admin",
		Short:         "ImuneTrack administration",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.connect(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file path (JSON)")
	cmd.PersistentFlags().StringVar(&a.dsn, "dsn", "", "Database DSN, overrides configuration ("+config.MemoryDSN+" for in-memory)")

	cmd.AddCommand(
		a.createAdminCmd(),
		a.listUsersCmd(),
		a.listVaccinesCmd(),
		a.addVaccineCmd(),
	)
	return cmd
}

func (a *app) connect(cmd *cobra.Command) error {
	var args []string
	if a.configPath != "" {
		args = []string{"-c", a.configPath}
	}
	cfg, err := config.LoadConfig(args)
	if err != nil {
		return err
	}
	if a.dsn != "" {
		cfg.DatabaseDSN = a.dsn
	}

	log := logging.NewJSONSlogLogger(cmd.ErrOrStderr(), slog.LevelWarn)
	ctx := cmd.Context()

	conn, rm, err := a.open(ctx, cfg, log)
	if err != nil {
		return err
	}
	a.env = &env{
		conn:     conn,
		users:    services.NewUserService(conn, rm, cfg, log),
		vaccines: services.NewVaccineService(conn, rm, log),
	}
	return nil
}

func (a *app) createAdminCmd() *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := GetNewPassword(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if perr := validation.PasswordPolicy(password); perr != nil {
				return perr
			}

			u, err := a.env.users.Create(cmd.Context(), name, email, password, true)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Administrador criado: id=%d email=%s\n", u.ID, u.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Full name")
	cmd.Flags().StringVar(&email, "email", "", "E-mail used to log in")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (a *app) listUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-users",
		Short: "List registered users",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := a.env.users.List(cmd.Context())
			if err != nil {
				return err
			}
			return table(cmd.OutOrStdout(), []string{"ID", "NOME", "EMAIL", "ADMIN"}, func(row func(...any)) {
				for _, u := range users {
					row(u.ID, u.Name, u.Email, u.IsAdmin)
				}
			})
		},
	}
}

func (a *app) listVaccinesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-vaccines",
		Short: "List the vaccine catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			vaccines, err := a.env.vaccines.List(cmd.Context())
			if err != nil {
				return err
			}
			return table(cmd.OutOrStdout(), []string{"ID", "NOME", "DOSES"}, func(row func(...any)) {
				for _, v := range vaccines {
					row(v.ID, v.Name, v.RequiredDoses)
				}
			})
		},
	}
}

func (a *app) addVaccineCmd() *cobra.Command {
	var (
		name  string
		doses int
	)

	cmd := &cobra.Command{
		Use:   "add-vaccine",
		Short: "Add a vaccine to the catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.env.vaccines.Create(cmd.Context(), name, doses)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Vacina criada: id=%d nome=%s doses=%d\n", v.ID, v.Name, v.RequiredDoses)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "nome", "", "Vaccine name")
	cmd.Flags().IntVar(&doses, "doses", 1, "Number of required doses (1-10)")
	_ = cmd.MarkFlagRequired("nome")
	return cmd
}

func table(w io.Writer, header []string, fill func(row func(...any))) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, h := range header {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, h)
	}
	fmt.Fprintln(tw)

	fill(func(cols ...any) {
		for i, c := range cols {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, c)
		}
		fmt.Fprintln(tw)
	})
	return tw.Flush()
}
