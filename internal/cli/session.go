package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/DRepublic-io/gNFT/internal/auth"
	"github.com/DRepublic-io/gNFT/internal/engine"
	"github.com/DRepublic-io/gNFT/internal/errors"
	"github.com/DRepublic-io/gNFT/internal/ledger"
	"github.com/DRepublic-io/gNFT/internal/logging"
	"github.com/DRepublic-io/gNFT/internal/sqlite"
	"github.com/DRepublic-io/gNFT/pkg/types"
)

// session is one CLI invocation's view of the world: the attached backend
// and the ledger, authority and engine restored from it.
type session struct {
	cfg       *viper.Viper
	backend   *sqlite.Backend
	ledger    *ledger.Ledger
	authority *auth.Authority
	engine    *engine.Engine
	logger    *zap.SugaredLogger

	account types.Account
	op      types.Capability
	tick    uint64
}

// openSession loads config, attaches the backend and restores all state.
// The caller must call close.
func openSession() (*session, error) {
	configDir, err := resolveConfigDir()
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return nil, err
	}
	dataDir, err := resolveDataDir(cfg.GetString(cfgKeyDataDir))
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.GetString(cfgKeyLogLevel), cfg.GetString(cfgKeyLogFormat))
	if err != nil {
		return nil, err
	}

	backend := sqlite.NewBackend(logger)
	if err := backend.Attach(types.Config{Backend: cfg.GetString(cfgKeyBackend), DataDir: dataDir}); err != nil {
		return nil, errors.Wrap(err, "attach backend")
	}

	s := &session{
		cfg:       cfg,
		backend:   backend,
		authority: auth.New(),
		logger:    logger,
		account:   types.Account(cfg.GetString(cfgKeyAccount)),
		op:        types.Capability{Token: cfg.GetString(cfgKeyOperatorToken)},
	}
	st, err := backend.Load()
	if err != nil {
		backend.Detach()
		return nil, errors.Wrap(err, "load state")
	}
	if err := s.restore(st); err != nil {
		backend.Detach()
		return nil, err
	}
	return s, nil
}

// restore builds the ledger, authority and engine from st.
func (s *session) restore(st types.State) error {
	s.ledger = ledger.New(st.Ledger.Owner, s.logger)
	if err := s.ledger.Restore(st.Ledger); err != nil {
		return errors.Wrap(err, "restore ledger")
	}
	if err := s.authority.Restore(st.Grants); err != nil {
		return errors.Wrap(err, "restore grants")
	}
	s.engine = engine.New(s.ledger, types.TickFunc(s.currentTick), s.authority, s.logger)
	if err := s.engine.Restore(st.Engine); err != nil {
		return errors.Wrap(err, "restore engine")
	}
	return nil
}

func (s *session) currentTick() uint64 {
	return s.tick
}

// state collects everything that is persisted.
func (s *session) state() types.State {
	return types.State{
		Ledger: s.ledger.Snapshot(),
		Engine: s.engine.Snapshot(),
		Grants: s.authority.Grants(),
	}
}

// commit saves the current state.
func (s *session) commit() error {
	if err := s.backend.Save(s.state()); err != nil {
		return errors.Wrap(err, "save state")
	}
	return nil
}

func (s *session) close() {
	if err := s.backend.Detach(); err != nil {
		s.logger.Warnw("detach failed", "error", err)
	}
	_ = s.logger.Sync()
}

// withSession runs fn inside a session and commits when mutate is true and
// fn succeeds.
func withSession(mutate bool, fn func(s *session) error) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	if err := fn(s); err != nil {
		return err
	}
	if mutate {
		return s.commit()
	}
	return nil
}

// sessionRunE adapts a session function to a cobra RunE.
func sessionRunE(mutate bool, fn func(cmd *cobra.Command, args []string, s *session) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return withSession(mutate, func(s *session) error {
			return fn(cmd, args, s)
		})
	}
}
