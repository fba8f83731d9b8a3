// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package capsule

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsCodec holds Prometheus metrics for the codec pipeline.
type metricsCodec struct {
	once sync.Once

	// Outcomes
	encodes prometheus.Counter
	decodes prometheus.Counter

	// Failures, by gate
	encodeRejects           prometheus.Counter
	decodeSizeFailures      prometheus.Counter
	decodeHeaderFailures    prometheus.Counter
	decodeCrcFailures       prometheus.Counter
	decodeStructureFailures prometheus.Counter

	// Shapes and durations
	payloadBytes   prometheus.Histogram
	encodeDuration prometheus.Histogram
	decodeDuration prometheus.Histogram
}

var codecMetrics metricsCodec

func (m *metricsCodec) init() {
	m.once.Do(func() {
		m.encodes = prometheus.NewCounter(prometheus.CounterOpts{Name: "capsule_codec_encodes_total", Help: "Payloads encoded into capsule blocks"})
		m.decodes = prometheus.NewCounter(prometheus.CounterOpts{Name: "capsule_codec_decodes_total", Help: "Capsule blocks decoded back to payloads"})

		m.encodeRejects = prometheus.NewCounter(prometheus.CounterOpts{Name: "capsule_codec_encode_rejects_total", Help: "Encodes refused because the payload exceeded max_input_bytes"})
		m.decodeSizeFailures = prometheus.NewCounter(prometheus.CounterOpts{Name: "capsule_codec_decode_size_failures_total", Help: "Decodes refused because the block size did not match the config"})
		m.decodeHeaderFailures = prometheus.NewCounter(prometheus.CounterOpts{Name: "capsule_codec_decode_header_failures_total", Help: "Decodes refused because of malformed header fields"})
		m.decodeCrcFailures = prometheus.NewCounter(prometheus.CounterOpts{Name: "capsule_codec_decode_crc_failures_total", Help: "Decodes refused because the payload checksum did not match"})
		m.decodeStructureFailures = prometheus.NewCounter(prometheus.CounterOpts{Name: "capsule_codec_decode_structure_failures_total", Help: "Decodes refused because of digit vector or padding structure faults"})

		durationBuckets := []float64{0.00001, 0.000025, 0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025}
		m.payloadBytes = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "capsule_codec_payload_bytes", Help: "Payload sizes seen by encode", Buckets: prometheus.ExponentialBuckets(1, 4, 9)})
		m.encodeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "capsule_codec_encode_seconds", Help: "Duration of full encodes", Buckets: durationBuckets})
		m.decodeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "capsule_codec_decode_seconds", Help: "Duration of full decodes", Buckets: durationBuckets})

		prometheus.MustRegister(
			m.encodes, m.decodes,
			m.encodeRejects,
			m.decodeSizeFailures, m.decodeHeaderFailures, m.decodeCrcFailures, m.decodeStructureFailures,
			m.payloadBytes, m.encodeDuration, m.decodeDuration,
		)
	})
}

// record helpers - used by the codec for metrics tracking
func recordEncode(payloadBytes int, seconds float64) {
	codecMetrics.init()
	codecMetrics.encodes.Inc()
	codecMetrics.payloadBytes.Observe(float64(payloadBytes))
	codecMetrics.encodeDuration.Observe(seconds)
}

func recordDecode(seconds float64) {
	codecMetrics.init()
	codecMetrics.decodes.Inc()
	codecMetrics.decodeDuration.Observe(seconds)
}

func recordEncodeReject() { codecMetrics.init(); codecMetrics.encodeRejects.Inc() }

func recordDecodeSizeFailure() { codecMetrics.init(); codecMetrics.decodeSizeFailures.Inc() }

func recordDecodeHeaderFailure() { codecMetrics.init(); codecMetrics.decodeHeaderFailures.Inc() }

func recordDecodeCrcFailure() { codecMetrics.init(); codecMetrics.decodeCrcFailures.Inc() }

func recordDecodeStructureFailure() { codecMetrics.init(); codecMetrics.decodeStructureFailures.Inc() }
