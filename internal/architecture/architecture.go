// Package architecture describes the reference diagram drawn by topodraw
// when run without arguments: a load-balanced EC2 application whose
// instances sit in private subnets of two availability zones behind an
// autoscaling group.
package architecture

import (
	"github.com/matzehuels/topodraw/pkg/topology"
)

// Title is the reference diagram's title. The default output file name is
// derived from it.
const Title = "Load Balanced EC2 Autoscaling Application"

// Build assembles and closes the reference diagram. opts override the
// diagram defaults (format, show flag, file name).
func Build(opts ...topology.Option) (*topology.Diagram, error) {
	d, err := topology.New(Title, opts...)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	users, err := d.Node("Users", "Users")
	if err != nil {
		return nil, err
	}

	var igw, lb *topology.Node
	err = d.Cluster("VPC 10.0.0.0/16", func(vpc *topology.Cluster) error {
		if _, err := vpc.Node("VPC", "VPC"); err != nil {
			return err
		}
		var err error
		if igw, err = vpc.Node("Internet Gateway", "InternetGateway"); err != nil {
			return err
		}

		err = vpc.Cluster("Public Subnet", func(c *topology.Cluster) error {
			lb, err = c.Node("Load Balancer", "ELB")
			return err
		})
		if err != nil {
			return err
		}

		ec2a, err := privateInstance(vpc, "Availability Zone 1", "Private Subnet 1", "EC2 Instance 1")
		if err != nil {
			return err
		}
		ec2b, err := privateInstance(vpc, "Availability Zone 2", "Private Subnet 2", "EC2 Instance 2")
		if err != nil {
			return err
		}

		asg, err := vpc.Node("Auto Scaling Group", "AutoScaling")
		if err != nil {
			return err
		}
		return d.Chain(topology.Group(lb), topology.Group(asg), topology.Group(ec2a, ec2b))
	})
	if err != nil {
		return nil, err
	}

	if err := d.Chain(topology.Group(users), topology.Group(igw), topology.Group(lb)); err != nil {
		return nil, err
	}
	return d, nil
}

// privateInstance places one EC2 instance in zone > subnet.
func privateInstance(vpc *topology.Cluster, zone, subnet, label string) (*topology.Node, error) {
	var n *topology.Node
	err := vpc.Cluster(zone, func(az *topology.Cluster) error {
		return az.Cluster(subnet, func(sn *topology.Cluster) error {
			var err error
			n, err = sn.Node(label, "EC2")
			return err
		})
	})
	return n, err
}
