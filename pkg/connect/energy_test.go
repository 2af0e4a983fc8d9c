package connect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func energyPage(values []string, next string) datapointsPage {
	page := datapointsPage{NextPageURL: next}
	for _, v := range values {
		page.Datapoints = append(page.Datapoints, datapointWrapper{
			Datapoint: datapointValue{Value: v},
		})
	}
	return page
}

func TestGetYearlyEnergy(t *testing.T) {
	var gets int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gets++
		require.Equal(t,
			"/apiv1/dsns/AC000W000000001/properties/daily_hpe/datapoints",
			r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "0", q.Get("per_page"), "yearly queries are unpaginated")
		assert.Equal(t, "true", q.Get("paginated"))
		assert.Equal(t, "true", q.Get("is_forward_page"))
		assert.Equal(t, "2023-01-01T00:00:00+0000", q.Get("filter[created_at_since_date]"))
		assert.Equal(t, "2023-12-31T00:00:00+0000", q.Get("filter[created_at_end_date]"))

		json.NewEncoder(w).Encode(energyPage([]string{"1.25:kWh", "2.5:kWh", "0.25:kWh"}, ""))
	}))
	defer ts.Close()

	c := testClient(ts)
	c.token = "tok"

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)

	total, err := c.GetYearlyEnergy(context.Background(), Device{DSN: "AC000W000000001"}, EnergyHeatPump, start, end)
	require.NoError(t, err)
	assert.Equal(t, 4.0, total)
	assert.Equal(t, 1, gets)
}

func TestGetHourlyEnergyUsage(t *testing.T) {
	t.Run("follows pagination", func(t *testing.T) {
		var gets int
		var ts *httptest.Server
		ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gets++
			require.Equal(t,
				"/apiv1/dsns/AC000W000000001/properties/hp_energy/datapoints",
				r.URL.Path)

			q := r.URL.Query()
			assert.Equal(t, "24", q.Get("per_page"))
			assert.Equal(t, "true", q.Get("paginated"))
			assert.Equal(t, "true", q.Get("is_forward_page"))

			switch q.Get("page") {
			case "":
				json.NewEncoder(w).Encode(energyPage([]string{"1.5:kWh", "2.0:kWh"}, ts.URL+r.URL.Path+"?page=2"))
			case "2":
				json.NewEncoder(w).Encode(energyPage([]string{"3.0:kWh"}, ts.URL+r.URL.Path+"?page=3"))
			case "3":
				json.NewEncoder(w).Encode(energyPage([]string{"4.0:kWh"}, ""))
			default:
				http.Error(w, "bad page", 400)
			}
		}))
		defer ts.Close()

		c := testClient(ts)
		c.token = "tok"

		start := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2023, 6, 2, 0, 0, 0, 0, time.UTC)

		total, err := c.GetHourlyEnergyUsage(context.Background(), Device{DSN: "AC000W000000001"}, EnergyHeatPump, start, end)
		require.NoError(t, err)
		assert.Equal(t, 10.5, total)
		assert.Equal(t, 3, gets, "one GET per page")
	})

	t.Run("mid-pagination failure returns error", func(t *testing.T) {
		var ts *httptest.Server
		ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("page") == "2" {
				http.Error(w, "gone", http.StatusBadGateway)
				return
			}
			json.NewEncoder(w).Encode(energyPage([]string{"1.0:kWh"}, ts.URL+r.URL.Path+"?page=2"))
		}))
		defer ts.Close()

		c := testClient(ts)
		c.token = "tok"

		_, err := c.GetHourlyEnergyUsage(context.Background(), Device{DSN: "d"}, EnergyHeatPump, time.Now().Add(-time.Hour), time.Now())
		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr, "partial sums must not be returned")
		assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
	})

	t.Run("bad datapoint value", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(energyPage([]string{"1.0:kWh", "not-a-number:kWh"}, ""))
		}))
		defer ts.Close()

		c := testClient(ts)
		c.token = "tok"

		_, err := c.GetHourlyEnergyUsage(context.Background(), Device{DSN: "d"}, EnergyHeatPump, time.Now().Add(-time.Hour), time.Now())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not-a-number:kWh")
	})
}

func TestAggregateEnergy(t *testing.T) {
	t.Run("dispatches by granularity", func(t *testing.T) {
		var paths []string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			paths = append(paths, r.URL.Path)
			json.NewEncoder(w).Encode(energyPage([]string{"1.0:kWh"}, ""))
		}))
		defer ts.Close()

		c := testClient(ts)
		c.token = "tok"
		device := Device{DSN: "d"}
		start, end := time.Now().Add(-time.Hour), time.Now()

		_, err := c.AggregateEnergy(context.Background(), device, EnergyResistive, GranularityDaily, start, end)
		require.NoError(t, err)
		_, err = c.AggregateEnergy(context.Background(), device, EnergyResistive, GranularityHourly, start, end)
		require.NoError(t, err)

		require.Len(t, paths, 2)
		assert.Equal(t, "/apiv1/dsns/d/properties/daily_ree/datapoints", paths[0])
		assert.Equal(t, "/apiv1/dsns/d/properties/re_energy/datapoints", paths[1])
	})

	t.Run("unknown granularity", func(t *testing.T) {
		c := NewClient("e", "p", nil)
		_, err := c.AggregateEnergy(context.Background(), Device{DSN: "d"}, EnergyHeatPump, Granularity("weekly"), time.Now(), time.Now())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "weekly")
	})
}

func TestGetTotalEnergyUsageForDay(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		// midnight to end of day in UTC-6, expressed in UTC
		assert.Equal(t, "2023-06-15T06:00:00+0000", q.Get("filter[created_at_since_date]"))
		assert.Equal(t, "2023-06-16T05:59:59+0000", q.Get("filter[created_at_end_date]"))
		json.NewEncoder(w).Encode(energyPage([]string{"0.5:kWh", "0.75:kWh"}, ""))
	}))
	defer ts.Close()

	c := testClient(ts)
	c.token = "tok"

	zone := time.FixedZone("CST", -6*60*60)
	day := time.Date(2023, 6, 15, 14, 30, 0, 0, zone)

	total, err := c.GetTotalEnergyUsageForDay(context.Background(), Device{DSN: "d"}, EnergyHeatPump, day)
	require.NoError(t, err)
	assert.Equal(t, 1.25, total)
}

func TestEnergyConvenienceMethods(t *testing.T) {
	var paths []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		json.NewEncoder(w).Encode(energyPage(nil, ""))
	}))
	defer ts.Close()

	c := testClient(ts)
	c.token = "tok"
	device := Device{DSN: "d"}
	start, end := time.Now().Add(-time.Hour), time.Now()

	_, err := c.GetYearlyHPE(context.Background(), device, start, end)
	require.NoError(t, err)
	_, err = c.GetYearlyREE(context.Background(), device, start, end)
	require.NoError(t, err)
	_, err = c.GetHourlyHPE(context.Background(), device, start, end)
	require.NoError(t, err)
	_, err = c.GetHourlyREE(context.Background(), device, start, end)
	require.NoError(t, err)

	require.Len(t, paths, 4)
	assert.Equal(t, "/apiv1/dsns/d/properties/daily_hpe/datapoints", paths[0])
	assert.Equal(t, "/apiv1/dsns/d/properties/daily_ree/datapoints", paths[1])
	assert.Equal(t, "/apiv1/dsns/d/properties/hp_energy/datapoints", paths[2])
	assert.Equal(t, "/apiv1/dsns/d/properties/re_energy/datapoints", paths[3])
}
