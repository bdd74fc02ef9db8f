// Copyright (c) 2025-2026 Canonical Ltd
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package exporter exposes modem status as Prometheus metrics. The modem is
// polled on scrape, so the scrape interval is the poll interval and the
// embedded HTTP server sees no background traffic.
package exporter

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/canonical/jrdwebapi/internal/modem"
)

// DefaultScrapeTimeout bounds one full status poll.
const DefaultScrapeTimeout = 15 * time.Second

var (
	upDesc = prometheus.NewDesc("modem_up",
		"Whether the last status poll of the modem succeeded.",
		nil, nil)
	signalDesc = prometheus.NewDesc("modem_signal_strength",
		"Signal strength in firmware bars (0-5).",
		[]string{"imei", "device", "network"}, nil)
	connStatusDesc = prometheus.NewDesc("modem_connection_status",
		"Connection status code (0 disconnected, 1 connecting, 2 connected, 3 disconnecting).",
		[]string{"imei", "device"}, nil)
	networkTypeDesc = prometheus.NewDesc("modem_network_type",
		"Network type code as reported by the firmware.",
		[]string{"imei", "device"}, nil)
	dlBytesDesc = prometheus.NewDesc("modem_download_bytes_total",
		"Bytes downloaded in the current connection.",
		[]string{"imei", "device"}, nil)
	ulBytesDesc = prometheus.NewDesc("modem_upload_bytes_total",
		"Bytes uploaded in the current connection.",
		[]string{"imei", "device"}, nil)
	dlRateDesc = prometheus.NewDesc("modem_download_rate_bytes",
		"Current download rate in bytes per second.",
		[]string{"imei", "device"}, nil)
	ulRateDesc = prometheus.NewDesc("modem_upload_rate_bytes",
		"Current upload rate in bytes per second.",
		[]string{"imei", "device"}, nil)
	rssiDesc = prometheus.NewDesc("modem_rssi_dbm",
		"Received signal strength indicator.",
		[]string{"imei", "device"}, nil)
	rsrpDesc = prometheus.NewDesc("modem_rsrp_dbm",
		"Reference signal received power.",
		[]string{"imei", "device"}, nil)
	sinrDesc = prometheus.NewDesc("modem_sinr_db",
		"Signal to interference and noise ratio.",
		[]string{"imei", "device"}, nil)
	rsrqDesc = prometheus.NewDesc("modem_rsrq_db",
		"Reference signal received quality.",
		[]string{"imei", "device"}, nil)
	smsUnreadDesc = prometheus.NewDesc("modem_sms_unread",
		"Unread SMS messages in modem storage.",
		[]string{"imei", "device"}, nil)
	smsUsedDesc = prometheus.NewDesc("modem_sms_used",
		"SMS storage slots in use.",
		[]string{"imei", "device"}, nil)
	smsMaxDesc = prometheus.NewDesc("modem_sms_max",
		"Total SMS storage slots.",
		[]string{"imei", "device"}, nil)
)

// Collector polls one modem on every scrape.
type Collector struct {
	modem    *modem.Modem
	extended bool
	timeout  time.Duration
}

type Option func(*Collector)

// WithExtended also scrapes the restricted traffic and radio metrics,
// which requires credentials on the underlying client.
func WithExtended() Option {
	return func(c *Collector) { c.extended = true }
}

func WithScrapeTimeout(d time.Duration) Option {
	return func(c *Collector) { c.timeout = d }
}

func NewCollector(m *modem.Modem, options ...Option) *Collector {
	c := &Collector{
		modem:   m,
		timeout: DefaultScrapeTimeout,
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

// Handler returns an HTTP handler serving this collector on a dedicated
// registry, keeping Go runtime metrics out of the modem scrape.
func (c *Collector) Handler() http.Handler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(c)

	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	// Descs are enumerated by hand: DescribeByCollect would poll the modem
	// at registration time.
	for _, desc := range []*prometheus.Desc{
		upDesc, signalDesc, connStatusDesc, networkTypeDesc,
		dlBytesDesc, ulBytesDesc, dlRateDesc, ulRateDesc,
		rssiDesc, rsrpDesc, sinrDesc, rsrqDesc,
		smsUnreadDesc, smsUsedDesc, smsMaxDesc,
	} {
		ch <- desc
	}
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	if c.extended {
		c.collectExtended(ctx, ch)
	} else {
		c.collectBasic(ctx, ch)
	}
}

func (c *Collector) collectBasic(ctx context.Context, ch chan<- prometheus.Metric) {
	info, err := c.modem.SystemInfo(ctx)
	if err != nil {
		c.down(ch, err)
		return
	}

	status, err := c.modem.SystemStatus(ctx)
	if err != nil {
		c.down(ch, err)
		return
	}

	ch <- prometheus.MustNewConstMetric(upDesc, prometheus.GaugeValue, 1)
	ch <- prometheus.MustNewConstMetric(signalDesc, prometheus.GaugeValue,
		float64(status.SignalStrength), info.IMEI, info.DeviceName, status.NetworkName)
	ch <- prometheus.MustNewConstMetric(connStatusDesc, prometheus.GaugeValue,
		float64(status.ConnectionStatus), info.IMEI, info.DeviceName)
	ch <- prometheus.MustNewConstMetric(networkTypeDesc, prometheus.GaugeValue,
		float64(status.NetworkType), info.IMEI, info.DeviceName)

	c.collectSMS(ctx, ch, info.IMEI, info.DeviceName)
}

func (c *Collector) collectExtended(ctx context.Context, ch chan<- prometheus.Metric) {
	info, err := c.modem.SystemInfo(ctx)
	if err != nil {
		c.down(ch, err)
		return
	}

	network, err := c.modem.NetworkInfo(ctx)
	if err != nil {
		c.down(ch, err)
		return
	}

	conn, err := c.modem.ConnectionState(ctx)
	if err != nil {
		c.down(ch, err)
		return
	}

	ch <- prometheus.MustNewConstMetric(upDesc, prometheus.GaugeValue, 1)
	ch <- prometheus.MustNewConstMetric(signalDesc, prometheus.GaugeValue,
		float64(network.SignalStrength), info.IMEI, info.DeviceName, network.NetworkName)

	labels := []string{info.IMEI, info.DeviceName}

	ch <- prometheus.MustNewConstMetric(connStatusDesc, prometheus.GaugeValue,
		float64(conn.ConnectionStatus), labels...)
	ch <- prometheus.MustNewConstMetric(networkTypeDesc, prometheus.GaugeValue,
		float64(network.NetworkType), labels...)
	ch <- prometheus.MustNewConstMetric(dlBytesDesc, prometheus.CounterValue,
		float64(conn.DlBytes), labels...)
	ch <- prometheus.MustNewConstMetric(ulBytesDesc, prometheus.CounterValue,
		float64(conn.UlBytes), labels...)
	ch <- prometheus.MustNewConstMetric(dlRateDesc, prometheus.GaugeValue,
		float64(conn.DlRate), labels...)
	ch <- prometheus.MustNewConstMetric(ulRateDesc, prometheus.GaugeValue,
		float64(conn.UlRate), labels...)

	for _, metric := range []struct {
		desc  *prometheus.Desc
		value int
	}{
		{rssiDesc, network.RSSI},
		{rsrpDesc, network.RSRP},
		{sinrDesc, network.SINR},
		{rsrqDesc, network.RSRQ},
	} {
		// -999 marks a metric this radio cannot measure.
		if metric.value != 0 && metric.value != -999 {
			ch <- prometheus.MustNewConstMetric(metric.desc, prometheus.GaugeValue,
				float64(metric.value), labels...)
		}
	}

	c.collectSMS(ctx, ch, info.IMEI, info.DeviceName)
}

func (c *Collector) down(ch chan<- prometheus.Metric, err error) {
	log.Err(err).Msg("Status poll failed")
	ch <- prometheus.MustNewConstMetric(upDesc, prometheus.GaugeValue, 0)
}

// collectSMS is best effort: SMS storage is a separate command and its
// absence should not fail the whole scrape.
func (c *Collector) collectSMS(ctx context.Context, ch chan<- prometheus.Metric, imei, device string) {
	storage, err := c.modem.SMSStorageState(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("SMS storage poll failed")
		return
	}

	ch <- prometheus.MustNewConstMetric(smsUnreadDesc, prometheus.GaugeValue,
		float64(storage.UnreadSMS), imei, device)
	ch <- prometheus.MustNewConstMetric(smsUsedDesc, prometheus.GaugeValue,
		float64(storage.UseCount), imei, device)
	ch <- prometheus.MustNewConstMetric(smsMaxDesc, prometheus.GaugeValue,
		float64(storage.MaxCount), imei, device)
}
