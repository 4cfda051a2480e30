package command

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"os"
	"strconv"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/spf13/cobra"

	"github.com/groovix/groovix/internal/sec"
	"github.com/groovix/groovix/internal/storage"
	"github.com/groovix/groovix/internal/storage/db"
)

// seedValue returns the seed from the GROOVIX_SEED environment variable, or a
// random value if not set.
func seedValue() uint64 {
	if env := os.Getenv("GROOVIX_SEED"); env != "" {
		if seed, err := strconv.ParseUint(env, 10, 64); err == nil {
			return seed
		}
	}
	return rand.Uint64() //nolint:gosec // intentionally weak random for test data
}

func seedCommand() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the store with fake users for development",
		Long: "Generates fake user accounts for local development. All seeded accounts\n" +
			"share the password \"password\". Set GROOVIX_SEED for a deterministic corpus.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			_, logger, store, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			seed := seedValue()
			faker := gofakeit.New(seed)
			hash, err := sec.HashPassword("password")
			if err != nil {
				return err
			}

			created := 0
			for created < count {
				_, err := store.CreateUser(cmd.Context(), db.User{
					Email:        faker.Email(),
					Name:         faker.Name(),
					PasswordHash: hash,
					Active:       true,
				})
				switch {
				case errors.Is(err, storage.ErrAlreadyExists):
					// the faker occasionally repeats an address; roll again
					continue
				case err != nil:
					return err
				}
				created++
			}

			logger.InfoContext(cmd.Context(), "seeded users",
				slog.Int("count", created),
				slog.Uint64("seed", seed),
			)
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 25, "number of users to create")
	return cmd
}
