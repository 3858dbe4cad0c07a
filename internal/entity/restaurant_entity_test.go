package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeliveryFromFlag(t *testing.T) {
	yes, no := true, false
	assert.Equal(t, DeliveryUnknown, DeliveryFromFlag(nil))
	assert.Equal(t, DeliveryAvailable, DeliveryFromFlag(&yes))
	assert.Equal(t, DeliveryNotAvailable, DeliveryFromFlag(&no))
}

func TestParseDeliveryStatus(t *testing.T) {
	for _, s := range []string{"Available", "Not Available", "Unknown"} {
		got, err := ParseDeliveryStatus(s)
		assert.NoError(t, err)
		assert.Equal(t, DeliveryStatus(s), got)
	}

	_, err := ParseDeliveryStatus("maybe")
	assert.Error(t, err)
}
