package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	appconfig "github.com/smykla-labs/safetynet/internal/config"
	"github.com/smykla-labs/safetynet/pkg/config"
)

var _ = Describe("Loader", func() {
	var (
		homeDir string
		workDir string
		loader  *appconfig.Loader
	)

	BeforeEach(func() {
		homeDir = GinkgoT().TempDir()
		workDir = GinkgoT().TempDir()
		loader = appconfig.NewLoaderWithDirs(homeDir, workDir)
	})

	writeGlobal := func(content string) {
		dir := filepath.Join(homeDir, appconfig.GlobalConfigDir)
		Expect(os.MkdirAll(dir, 0o755)).To(Succeed())
		Expect(os.WriteFile(
			filepath.Join(dir, appconfig.GlobalConfigFile), []byte(content), 0o644)).To(Succeed())
	}

	writeProject := func(content string) {
		Expect(os.WriteFile(
			filepath.Join(workDir, appconfig.ProjectConfigFileAlt), []byte(content), 0o644)).To(Succeed())
	}

	Context("with no config files", func() {
		It("returns defaults", func() {
			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.IsStrict()).To(BeFalse())
			Expect(cfg.GetEngine().GetMaxRecursionDepth()).To(Equal(config.DefaultMaxRecursionDepth))
			Expect(cfg.GetEngine().GetMaxSegments()).To(Equal(config.DefaultMaxSegments))
			Expect(cfg.GetRules().Deletion.GetTempRoots()).To(Equal(config.DefaultTempRoots))
			Expect(cfg.GetRules().Git.IsBranchSwitchingAllowed()).To(BeFalse())
		})
	})

	Context("with a global config file", func() {
		It("loads values from it", func() {
			writeGlobal(`
strict = true

[logging]
debug = true

[rules.git]
allow_branch_switching = true
`)

			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.IsStrict()).To(BeTrue())
			Expect(cfg.GetLogging().IsDebug()).To(BeTrue())
			Expect(cfg.GetRules().Git.IsBranchSwitchingAllowed()).To(BeTrue())
		})

		It("rejects a world-writable config file", func() {
			writeGlobal("strict = true")
			path := loader.GlobalConfigPath()
			Expect(os.Chmod(path, 0o666)).To(Succeed())

			_, err := loader.Load(nil)
			Expect(err).To(MatchError(appconfig.ErrInvalidPermissions))
		})

		It("rejects invalid TOML", func() {
			writeGlobal("strict = [unclosed")

			_, err := loader.Load(nil)
			Expect(err).To(MatchError(appconfig.ErrInvalidTOML))
		})
	})

	Context("with a project config file", func() {
		It("overrides the global config", func() {
			writeGlobal("strict = true")
			writeProject("strict = false")

			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.IsStrict()).To(BeFalse())
		})

		It("loads engine bounds", func() {
			writeProject(`
[engine]
max_recursion_depth = 3
max_segments = 16
`)

			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.GetEngine().GetMaxRecursionDepth()).To(Equal(3))
			Expect(cfg.GetEngine().GetMaxSegments()).To(Equal(16))
		})
	})

	Context("with environment variables", func() {
		It("overrides file config", func() {
			writeProject("strict = false")
			GinkgoT().Setenv("SAFETYNET_STRICT", "1")

			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.IsStrict()).To(BeTrue())
		})

		It("accepts the usual boolean spellings", func() {
			for _, value := range []string{"1", "true", "yes", "on"} {
				GinkgoT().Setenv("SAFETYNET_DEBUG", value)

				cfg, err := loader.Load(nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.GetLogging().IsDebug()).To(BeTrue(), value)
			}
		})

		It("ignores unknown SAFETYNET_ variables", func() {
			GinkgoT().Setenv("SAFETYNET_BOGUS", "1")

			_, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Context("with CLI flags", func() {
		It("gives flags the highest precedence", func() {
			writeProject("strict = true")
			GinkgoT().Setenv("SAFETYNET_STRICT", "1")

			cfg, err := loader.Load(map[string]any{"strict": false})
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.IsStrict()).To(BeFalse())
		})
	})
})
