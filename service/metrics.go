// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus metrics
var (
	promDiagramsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagrams_generated_total",
			Help: "Total number of diagram generation requests by outcome",
		},
		[]string{"status"},
	)
	promSynthesisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "diagrams_synthesis_duration_milliseconds",
			Help:    "End-to-end synthesis duration in milliseconds",
			Buckets: []float64{50, 100, 250, 500, 1000, 2000, 5000, 10000, 30000},
		},
		[]string{"provider"},
	)
	promDownloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagrams_downloads_total",
			Help: "Total number of diagram downloads by outcome",
		},
		[]string{"status"},
	)
	promArtifactsSwept = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "diagrams_artifacts_swept_total",
			Help: "Total number of expired artifacts removed by sweeps",
		},
	)
)

func init() {
	prometheus.MustRegister(promDiagramsTotal)
	prometheus.MustRegister(promSynthesisDuration)
	prometheus.MustRegister(promDownloadsTotal)
	prometheus.MustRegister(promArtifactsSwept)
}
