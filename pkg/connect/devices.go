package connect

import (
	"context"
	"encoding/json"
	"fmt"
)

// GetDevices returns every appliance registered to the account, in the order
// the server returned them.
func (c *Client) GetDevices(ctx context.Context) ([]Device, error) {
	headers := c.generateHeaders(nil)

	var wrapped []deviceWrapper
	if err := c.getJSON(ctx, c.deviceURL+"/apiv1/devices.json", headers, nil, &wrapped); err != nil {
		return nil, err
	}

	devices := make([]Device, len(wrapped))
	for i, w := range wrapped {
		devices[i] = w.Device
	}
	return devices, nil
}

// GetDeviceProperties returns the current properties of the given device,
// each still inside the server's per-property envelope.
func (c *Client) GetDeviceProperties(ctx context.Context, device Device) ([]PropertyWrapper, error) {
	headers := c.generateHeaders(nil)

	uri := fmt.Sprintf("%s/apiv1/dsns/%s/properties.json", c.deviceURL, device.DSN)
	var properties []PropertyWrapper
	if err := c.getJSON(ctx, uri, headers, nil, &properties); err != nil {
		return nil, err
	}
	return properties, nil
}

// SetDeviceHeatMode switches the device to the given heating mode. The mode
// is not validated locally; the server rejects modes the appliance does not
// support. The raw server response is returned.
func (c *Client) SetDeviceHeatMode(ctx context.Context, device Device, mode HeatingMode) (map[string]interface{}, error) {
	headers := c.generateHeaders(map[string]string{
		"content-type":  "application/json",
		"x-ayla-source": "Mobile",
	})

	body, err := json.Marshal(map[string]interface{}{
		"datapoint": map[string]interface{}{"value": int(mode)},
	})
	if err != nil {
		return nil, err
	}

	uri := fmt.Sprintf("%s/apiv1/dsns/%s/properties/set_heat_mode_%d/datapoints.json",
		c.deviceURL, device.DSN, int(mode))

	var res map[string]interface{}
	if err := c.postJSON(ctx, uri, headers, body, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// UpdateDeviceSetPoint sets the target water temperature.
func (c *Client) UpdateDeviceSetPoint(ctx context.Context, device Device, value float64) error {
	headers := c.generateHeaders(map[string]string{
		"content-type":  "application/json",
		"x-ayla-source": "Mobile",
	})

	body, err := json.Marshal(map[string]interface{}{
		"datapoint": map[string]interface{}{"value": value},
	})
	if err != nil {
		return err
	}

	uri := fmt.Sprintf("%s/apiv1/dsns/%s/properties/water_setpoint_in/datapoints.json",
		c.deviceURL, device.DSN)

	return c.postJSON(ctx, uri, headers, body, nil)
}
