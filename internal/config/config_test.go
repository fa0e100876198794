package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Andrej220/go-utils/jobswarm/internal/config"
)

var _ = Describe("Configuration", func() {
	Describe("NewConfigurationWithDefaults", func() {
		It("should apply the default tags", func() {
			c, err := config.NewConfigurationWithDefaults()
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Size).To(Equal(2048))
			Expect(c.Tile).To(Equal(8))
			Expect(c.Workers).To(Equal(8))
			Expect(c.Iterations).To(Equal(65536))
			Expect(c.Spool).To(BeFalse())
			Expect(c.SpoolCeiling).To(Equal(256))
			Expect(c.Repetitions).To(Equal(10))
			Expect(c.WriteImages).To(BeTrue())
			Expect(c.Metrics).To(Equal(config.MetricsAtomic))
			Expect(c.Validate()).To(Succeed())
		})
	})

	Describe("ApplyStressPreset", func() {
		It("should switch to small spooled jobs", func() {
			c, err := config.NewConfigurationWithDefaults()
			Expect(err).NotTo(HaveOccurred())

			c.ApplyStressPreset()
			Expect(c.Tile).To(Equal(2))
			Expect(c.Iterations).To(Equal(16))
			Expect(c.Spool).To(BeTrue())
			Expect(c.SpoolCeiling).To(Equal(32))
			Expect(c.Validate()).To(Succeed())
		})
	})

	Describe("Validate", func() {
		It("should reject a tile that does not divide the size", func() {
			c, _ := config.NewConfigurationWithDefaults()
			c.Tile = 3
			Expect(c.Validate()).To(MatchError(ContainSubstring("tile 3 must evenly divide size 2048")))
		})

		It("should report every invalid field", func() {
			c, _ := config.NewConfigurationWithDefaults()
			c.Workers = 0
			c.Metrics = "prometheus"
			err := c.Validate()
			Expect(err).To(MatchError(ContainSubstring("workers must be positive")))
			Expect(err).To(MatchError(ContainSubstring(`invalid metrics "prometheus"`)))
		})
	})

	Describe("Load", func() {
		It("should keep defaults for unset keys", func() {
			c, err := config.Load(config.NewViper())
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Size).To(Equal(2048))
		})

		It("should prefer explicitly set values", func() {
			v := config.NewViper()
			v.Set("workers", 3)
			v.Set("spool-ceiling", 64)

			c, err := config.Load(v)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Workers).To(Equal(3))
			Expect(c.SpoolCeiling).To(Equal(64))
		})

		It("should read prefixed environment variables", func() {
			Expect(os.Setenv("JOBSWARM_SPOOL_CEILING", "16")).To(Succeed())
			Expect(os.Setenv("JOBSWARM_SPOOL", "true")).To(Succeed())
			DeferCleanup(os.Unsetenv, "JOBSWARM_SPOOL_CEILING")
			DeferCleanup(os.Unsetenv, "JOBSWARM_SPOOL")

			c, err := config.Load(config.NewViper())
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Spool).To(BeTrue())
			Expect(c.SpoolCeiling).To(Equal(16))
		})

		It("should read a config file", func() {
			path := filepath.Join(GinkgoT().TempDir(), "jobswarm.yaml")
			Expect(os.WriteFile(path, []byte("size: 256\ntile: 4\n"), 0o600)).To(Succeed())

			v := config.NewViper()
			v.SetConfigFile(path)

			c, err := config.Load(v)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Size).To(Equal(256))
			Expect(c.Tile).To(Equal(4))
		})

		It("should let explicit values override the stress defaults", func() {
			v := config.NewViper()
			config.StressDefaults(v)
			v.Set("tile", 4)

			c, err := config.Load(v)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Tile).To(Equal(4))
			Expect(c.Iterations).To(Equal(16))
			Expect(c.SpoolCeiling).To(Equal(32))
			Expect(c.Spool).To(BeTrue())
		})

		It("should fail validation of loaded values", func() {
			v := config.NewViper()
			v.Set("log-format", "xml")

			_, err := config.Load(v)
			Expect(err).To(MatchError(ContainSubstring("invalid log-format")))
		})
	})
})
