// Package orchestrator runs the Java-chain fallback and the Java/Bedrock
// fan-out described by the probe strategy: resolve an address, then dial
// every resulting endpoint, trying protocols oldest-first until one
// conclusively succeeds or the endpoint's port turns out not to be
// listening at all.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"
	"golang.org/x/sync/semaphore"

	"github.com/gammazero/workerpool"

	"mcslp/internal/probe"
	"mcslp/internal/resolve"
	"mcslp/internal/status"
)

// defaultMaxConcurrentProbes bounds how many endpoints are probed at once
// across one Run call when Options.MaxConcurrentProbes is unset.
const defaultMaxConcurrentProbes = 32

// Options configures one orchestrator run.
type Options struct {
	Timeout   time.Duration
	EnableSRV bool
	Protocol  status.SlpProtocol // status.All requests the fallback chain

	// MaxConcurrentProbes bounds how many endpoints are probed at once (§5
	// "offload... to a worker pool"). Each endpoint runs its Java chain and
	// its Bedrock probe side by side, so up to twice this many socket probes
	// can be in flight. 0 uses defaultMaxConcurrentProbes.
	MaxConcurrentProbes int
}

// javaChainOrder is the oldest-protocol-first fallback order: older
// servers stall for seconds after receiving a packet they don't
// recognize, so probing oldest-first avoids paying that stall on modern
// servers while still reaching old ones.
var javaChainOrder = []status.SlpProtocol{
	status.Legacy,
	status.Beta,
	status.ExtendedLegacy,
	status.Query,
	status.JSON,
}

// EndpointResult pairs one resolved target with the outcome of probing it.
type EndpointResult struct {
	Target  status.ProbeTarget
	Java    status.StatusRecord
	Bedrock status.StatusRecord // zero value if not attempted (SRV targets skip it)
}

// Run resolves host and probes every resulting endpoint. Endpoints are
// reported in resolution order; within an endpoint, Java-chain and
// Bedrock probing run concurrently and their results are independent.
func Run(ctx context.Context, r *resolve.Resolver, host string, opts Options) ([]EndpointResult, error) {
	ph, err := resolve.ParseHost(host)
	if err != nil {
		log.WithError(err).WithField("host", host).Warn("orchestrator: could not parse host")
		return nil, err
	}

	targets, err := resolve.Resolve(ctx, r, ph, opts.EnableSRV)
	if err != nil {
		log.WithError(err).WithField("host", host).Warn("orchestrator: resolution failed")
		return nil, err
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("orchestrator: no targets resolved for %q", host)
	}
	log.WithFields(log.Fields{"host": host, "endpoints": len(targets)}).Debug("orchestrator: resolved targets")

	maxProbes := opts.MaxConcurrentProbes
	if maxProbes <= 0 {
		maxProbes = defaultMaxConcurrentProbes
	}
	sem := semaphore.NewWeighted(int64(maxProbes))
	pool := workerpool.New(maxProbes)
	defer pool.StopWait()

	results := make([]EndpointResult, len(targets))
	for i, t := range targets {
		target := t
		if target.Port == 0 {
			target.Port = resolve.DefaultPort(target.Kind, false)
		}
		results[i].Target = target
	}

	done := make(chan struct{}, len(targets))

	runsJava := opts.Protocol != status.BedrockRaknet
	runsBedrock := opts.Protocol == "" || opts.Protocol == status.All || opts.Protocol == status.BedrockRaknet

	for idx := range targets {
		idx := idx
		rawTarget := targets[idx] // unmodified: Port may still be 0
		javaTarget := results[idx].Target
		pool.Submit(func() {
			defer func() { done <- struct{}{} }()
			_ = sem.Acquire(ctx, 1)
			defer sem.Release(1)

			var javaCh, bedrockCh chan status.StatusRecord

			if runsJava {
				javaCh = make(chan status.StatusRecord, 1)
				go func() {
					javaCh <- runJavaChain(ctx, javaTarget, opts)
				}()
			}

			// Bedrock never answers on an SRV-advertised port, so SRV
			// targets only ever run the Java chain.
			if runsBedrock && !rawTarget.Kind.IsSRV() {
				bedrockCh = make(chan status.StatusRecord, 1)
				go func() {
					port := rawTarget.Port
					if port == 0 {
						port = resolve.DefaultPort(rawTarget.Kind, true)
					}
					bOpts := probe.Options{IP: rawTarget.IP, Port: port, Refer: rawTarget.Refer, Timeout: opts.Timeout}
					log.WithFields(log.Fields{"protocol": status.BedrockRaknet, "ip": bOpts.IP, "port": bOpts.Port}).Debug("orchestrator: probing")
					rec := recoverProbe(func() status.StatusRecord {
						return probe.Bedrock(ctx, bOpts)
					})
					logProbeResult(status.BedrockRaknet, bOpts, rec)
					bedrockCh <- rec
				}()
			}

			if javaCh != nil {
				results[idx].Java = <-javaCh
			}
			if bedrockCh != nil {
				results[idx].Bedrock = <-bedrockCh
			}
		})
	}

	for range targets {
		<-done
	}

	return results, nil
}

// runJavaChain runs either the caller's single requested protocol or the
// full oldest-first fallback chain for one target.
func runJavaChain(ctx context.Context, t status.ProbeTarget, opts Options) status.StatusRecord {
	o := probe.Options{IP: t.IP, Port: t.Port, Refer: t.Refer, Timeout: opts.Timeout}

	if opts.Protocol != "" && opts.Protocol != status.All && opts.Protocol != status.BedrockRaknet {
		return recoverProbe(func() status.StatusRecord { return runOne(ctx, opts.Protocol, o) })
	}

	return runChain(javaChainOrder, func(proto status.SlpProtocol) status.StatusRecord {
		return recoverProbe(func() status.StatusRecord { return runOne(ctx, proto, o) })
	})
}

// runChain applies the oldest-first fallback rule over order, calling run
// for each protocol in turn: the first SUCCESS wins, any CONNFAIL
// short-circuits immediately, and any other status continues to the next
// protocol. Factored out from runJavaChain so the fallback logic itself
// can be tested without a network.
func runChain(order []status.SlpProtocol, run func(status.SlpProtocol) status.StatusRecord) status.StatusRecord {
	var last status.StatusRecord
	for _, proto := range order {
		rec := run(proto)
		last = rec
		if rec.ConnectionStatus == status.Success {
			return rec
		}
		if rec.ConnectionStatus == status.ConnFail {
			return rec
		}
		// TIMEOUT or UNKNOWN: the port answered something (or nothing
		// conclusive) but didn't rule out an older/newer protocol, so the
		// chain keeps trying.
	}
	return last
}

func runOne(ctx context.Context, proto status.SlpProtocol, o probe.Options) status.StatusRecord {
	log.WithFields(log.Fields{"protocol": proto, "ip": o.IP, "port": o.Port}).Debug("orchestrator: probing")
	var rec status.StatusRecord
	switch proto {
	case status.Legacy:
		rec = probe.Legacy(ctx, o)
	case status.Beta:
		rec = probe.Beta(ctx, o)
	case status.ExtendedLegacy:
		rec = probe.ExtendedLegacy(ctx, o)
	case status.Query:
		rec = probe.Query(ctx, o)
	case status.JSON:
		rec = probe.JSON(ctx, o)
	default:
		rec = status.Failure(o.IP, o.Port, status.Unknown)
	}
	logProbeResult(proto, o, rec)
	return rec
}

// logProbeResult reports one probe attempt's outcome at Debug (success) or
// Warn (any other ConnStatus), matching the "Debug for per-attempt detail,
// Warn/Error for failures that don't abort the run" split.
func logProbeResult(proto status.SlpProtocol, o probe.Options, rec status.StatusRecord) {
	fields := log.Fields{"protocol": proto, "ip": o.IP, "port": o.Port, "status": rec.ConnectionStatus}
	if rec.ConnectionStatus == status.Success {
		log.WithFields(fields).Debug("orchestrator: probe succeeded")
		return
	}
	log.WithFields(fields).Warn("orchestrator: probe did not succeed")
}

// recoverProbe downgrades any panic inside a probe to an UNKNOWN status
// instead of letting it crash the run, matching the original
// implementation's blanket exception containment around each protocol
// attempt.
func recoverProbe(fn func() status.StatusRecord) (rec status.StatusRecord) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("recover", r).Error("orchestrator: probe panicked, downgrading to unknown")
			rec = status.Failure("", 0, status.Unknown)
		}
	}()
	return fn()
}
