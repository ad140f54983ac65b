package internal

import (
	"testing"
	"time"

	"github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	req := require.New(t)
	var config Config
	err := env.Unmarshal(env.EnvSet{"JWT_SECRET": "secret", "PORT": "9000"}, &config)
	req.NoError(err)

	req.Equal("localhost:9000", config.Address())
	req.Equal(4, config.NumberOfWorkers)
	req.Equal(2*time.Second, config.SinkTimeout)
	req.Equal(16<<20, config.MaxFrameSize)
	req.True(config.AllowAnonymous)
	req.Nil(config.LimitMessages)
	req.Zero(config.PingInterval)
}

func TestConfig_RequiresSecret(t *testing.T) {
	var config Config
	err := env.Unmarshal(env.EnvSet{}, &config)
	require.Error(t, err)
}

func TestCharacterRune(t *testing.T) {
	req := require.New(t)
	r, err := CharacterRune("#")
	req.NoError(err)
	req.Equal('#', r)

	_, err = CharacterRune("**")
	req.Error(err)
	_, err = CharacterRune("")
	req.Error(err)
}
