package config

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"log"

	"github.com/spf13/afero"
)

// Initialize writes a default configuration, session log directory and host
// key into the directory, skipping anything that already exists.
func Initialize(dir string, logger *log.Logger) (*Configuration, error) {
	fs := afero.NewBasePathFs(afero.NewOsFs(), dir)

	logger.Printf("Initializing configuration in %q", dir)

	if exists, _ := afero.Exists(fs, ConfigurationName); !exists {
		logger.Printf("- Writing %s", ConfigurationName)
		if err := afero.WriteFile(fs, ConfigurationName, defaultConfigData, 0600); err != nil {
			return nil, err
		}
	} else {
		logger.Printf("- %s already exists, skipping", ConfigurationName)
	}

	logger.Printf("- Creating %s/", LogsDirName)
	if err := fs.MkdirAll(LogsDirName, 0700); err != nil {
		return nil, err
	}

	if exists, _ := afero.Exists(fs, PrivateKeyName); !exists {
		logger.Printf("- Generating host key %s", PrivateKeyName)
		keyPem, err := generateHostKey()
		if err != nil {
			return nil, err
		}
		if err := afero.WriteFile(fs, PrivateKeyName, keyPem, 0600); err != nil {
			return nil, err
		}
	} else {
		logger.Printf("- %s already exists, skipping", PrivateKeyName)
	}

	logger.Println("Done, review the configuration then start with: psh serve")

	return Load(dir)
}

func generateHostKey() ([]byte, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}

	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, err
	}

	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}
