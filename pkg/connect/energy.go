package connect

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// EnergyType selects which energy series to aggregate.
type EnergyType string

const (
	EnergyHeatPump  EnergyType = "hp"
	EnergyResistive EnergyType = "re"
)

// Granularity selects the resolution of the underlying datapoint series.
type Granularity string

const (
	GranularityDaily  Granularity = "daily"
	GranularityHourly Granularity = "hourly"
)

// The platform wants an explicit numeric UTC offset, not a zone name.
const timestampLayout = "2006-01-02T15:04:05-0700"

// Hourly datapoints come back one day per page.
const hourlyPageSize = 24

func dateRangeParams(perPage int, start, end time.Time) url.Values {
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("paginated", "true")
	params.Set("is_forward_page", "true")
	params.Set("filter[created_at_since_date]", start.Format(timestampLayout))
	params.Set("filter[created_at_end_date]", end.Format(timestampLayout))
	return params
}

// sumDatapoints adds up the numeric prefix of each "<number>:<unit>" encoded
// datapoint value. The encoding is split on the first colon only; anything
// that doesn't parse fails the whole aggregation.
func sumDatapoints(page datapointsPage) (float64, error) {
	var total float64
	for _, item := range page.Datapoints {
		left, _, _ := strings.Cut(item.Datapoint.Value, ":")
		v, err := strconv.ParseFloat(left, 64)
		if err != nil {
			return 0, fmt.Errorf("bad datapoint value %q: %w", item.Datapoint.Value, err)
		}
		total += v
	}
	return total, nil
}

// AggregateEnergy sums the energy usage of the given series over the date
// range at the given granularity, in the unit the platform reports
// (kilowatt-hours).
func (c *Client) AggregateEnergy(ctx context.Context, device Device, typ EnergyType, granularity Granularity, start, end time.Time) (float64, error) {
	switch granularity {
	case GranularityDaily:
		return c.GetYearlyEnergy(ctx, device, typ, start, end)
	case GranularityHourly:
		return c.GetHourlyEnergyUsage(ctx, device, typ, start, end)
	}
	return 0, fmt.Errorf("unknown granularity: %q", granularity)
}

// GetYearlyEnergy sums the daily energy datapoints of the given series over
// the date range.
func (c *Client) GetYearlyEnergy(ctx context.Context, device Device, typ EnergyType, start, end time.Time) (float64, error) {
	headers := c.generateHeaders(map[string]string{
		"accept": "application/json,description",
	})
	params := dateRangeParams(0, start, end)

	// unlike the mode and setpoint endpoints, the energy datapoint
	// endpoints take no .json suffix
	uri := fmt.Sprintf("%s/apiv1/dsns/%s/properties/daily_%se/datapoints",
		c.deviceURL, device.DSN, typ)

	var page datapointsPage
	if err := c.getJSON(ctx, uri, headers, params, &page); err != nil {
		return 0, err
	}
	return sumDatapoints(page)
}

// GetHourlyEnergyUsage sums the hourly energy datapoints of the given series
// over the date range, following the server's pagination until the last
// page. A failure on any page fails the whole aggregation; no partial total
// is ever returned.
func (c *Client) GetHourlyEnergyUsage(ctx context.Context, device Device, typ EnergyType, start, end time.Time) (float64, error) {
	headers := c.generateHeaders(map[string]string{
		"accept": "application/json,description",
	})
	params := dateRangeParams(hourlyPageSize, start, end)

	uri := fmt.Sprintf("%s/apiv1/dsns/%s/properties/%s_energy/datapoints",
		c.deviceURL, device.DSN, typ)

	var total float64
	for uri != "" {
		var page datapointsPage
		if err := c.getJSON(ctx, uri, headers, params, &page); err != nil {
			return 0, err
		}
		sum, err := sumDatapoints(page)
		if err != nil {
			return 0, err
		}
		total += sum
		uri = page.NextPageURL
	}
	return total, nil
}

// GetYearlyHPE sums the daily heat pump energy usage over the date range.
func (c *Client) GetYearlyHPE(ctx context.Context, device Device, start, end time.Time) (float64, error) {
	return c.GetYearlyEnergy(ctx, device, EnergyHeatPump, start, end)
}

// GetYearlyREE sums the daily resistive element energy usage over the date
// range.
func (c *Client) GetYearlyREE(ctx context.Context, device Device, start, end time.Time) (float64, error) {
	return c.GetYearlyEnergy(ctx, device, EnergyResistive, start, end)
}

// GetHourlyHPE sums the hourly heat pump energy usage over the date range.
func (c *Client) GetHourlyHPE(ctx context.Context, device Device, start, end time.Time) (float64, error) {
	return c.GetHourlyEnergyUsage(ctx, device, EnergyHeatPump, start, end)
}

// GetHourlyREE sums the hourly resistive element energy usage over the date
// range.
func (c *Client) GetHourlyREE(ctx context.Context, device Device, start, end time.Time) (float64, error) {
	return c.GetHourlyEnergyUsage(ctx, device, EnergyResistive, start, end)
}

// GetTotalEnergyUsageForDay sums the hourly energy usage of the given series
// over the calendar day containing date, in date's own location, converted to
// UTC for transmission.
func (c *Client) GetTotalEnergyUsageForDay(ctx context.Context, device Device, typ EnergyType, date time.Time) (float64, error) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, 999999000, date.Location())
	return c.GetHourlyEnergyUsage(ctx, device, typ, start.UTC(), end.UTC())
}
